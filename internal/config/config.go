// Package config loads termquiz settings from defaults, a YAML file, a .env
// file, TERMQUIZ_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/termquiz/internal/llm"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// ErrMissingSetting is returned by accessors whose required value is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Config holds application configuration.
type Config struct {
	Env        string           `mapstructure:"env"`       // local, production
	LogLevel   string           `mapstructure:"log_level"` // debug, info, warn, error
	Generation GenerationConfig `mapstructure:"generation"`
	Pool       PoolConfig       `mapstructure:"pool"`
	Output     OutputConfig     `mapstructure:"output"`
	Store      StoreConfig      `mapstructure:"store"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
}

// GenerationConfig mirrors quizgen.Config.
type GenerationConfig struct {
	Count        int    `mapstructure:"count"`
	Distractors  int    `mapstructure:"distractors"`
	Seed         uint64 `mapstructure:"seed"` // 0 picks a random seed
	MaxDraws     int    `mapstructure:"max_draws"`
	SameCategory bool   `mapstructure:"same_category"`
	TagCategory  bool   `mapstructure:"tag_category"`
}

// PoolConfig selects the term pool. An empty path uses the built-in pool.
type PoolConfig struct {
	Path string `mapstructure:"path"`
}

// OutputConfig controls where datasets are written.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig controls the local run store.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty resolves store.DefaultDBPath
	Save bool   `mapstructure:"save"` // record every generate run
}

// PostgresConfig configures the optional PostgreSQL sink.
type PostgresConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int32         `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the connection string if it is configured.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL == "" {
		return "", fmt.Errorf("%w: postgres.url (TERMQUIZ_POSTGRES_URL or DATABASE_URL)", ErrMissingSetting)
	}
	return p.URL, nil
}

// TelegramConfig configures quiz poll publishing.
type TelegramConfig struct {
	Token    string        `mapstructure:"token"`
	ChatID   int64         `mapstructure:"chat_id"`
	Interval time.Duration `mapstructure:"interval"`
}

// APIToken returns the bot token if it is configured.
func (t TelegramConfig) APIToken() (string, error) {
	if t.Token == "" {
		return "", fmt.Errorf("%w: telegram.token (TERMQUIZ_TELEGRAM_TOKEN or TELEGRAM_API_TOKEN)", ErrMissingSetting)
	}
	return t.Token, nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig selects and configures the explanation provider.
type LLMConfig struct {
	Provider   string         `mapstructure:"provider"` // empty probes standard API key variables
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML file. Empty searches "." and
	// $XDG_CONFIG_HOME/termquiz for termquiz.yaml.
	ConfigFile string

	// EnvFile is loaded into the process environment before reading
	// variables. Missing files are ignored. Default ".env".
	EnvFile string

	// Flags and FlagKeys bind command flags to config keys: FlagKeys maps
	// a config key (e.g. "generation.count") to a flag name (e.g. "count").
	Flags    *pflag.FlagSet
	FlagKeys map[string]string
}

// Load reads configuration from all sources.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("termquiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	// TERMQUIZ_GENERATION_COUNT -> generation.count
	v.SetEnvPrefix("TERMQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	for key, name := range opts.FlagKeys {
		if opts.Flags == nil {
			break
		}
		f := opts.Flags.Lookup(name)
		if f == nil {
			return nil, fmt.Errorf("bind flag %q: no such flag", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")

	v.SetDefault("generation.count", quizgen.DefaultTotalCount)
	v.SetDefault("generation.distractors", quizgen.DefaultDistractorCount)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.max_draws", quizgen.DefaultMaxDraws)
	v.SetDefault("generation.same_category", false)
	v.SetDefault("generation.tag_category", false)

	v.SetDefault("pool.path", "")
	v.SetDefault("output.path", "questions.json")
	v.SetDefault("store.path", "")
	v.SetDefault("store.save", false)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.max_conn_lifetime", "30m")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.interval", "3s")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	for name, p := range map[string]ProviderConfig{
		"anthropic":  {Model: d.Anthropic.Model},
		"openai":     {Model: d.OpenAI.Model, BaseURL: d.OpenAI.BaseURL},
		"gemini":     {Model: d.Gemini.Model},
		"openrouter": {Model: d.OpenRouter.Model, BaseURL: d.OpenRouter.BaseURL},
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", p.Model)
		v.SetDefault("llm."+name+".base_url", p.BaseURL)
	}
}

// bindEnvAliases accepts the conventional variable names next to the
// prefixed ones. The first name listed wins.
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string][]string{
		"store.path":     {"TERMQUIZ_STORE_PATH", "TERMQUIZ_DB"},
		"postgres.url":   {"TERMQUIZ_POSTGRES_URL", "DATABASE_URL"},
		"telegram.token": {"TERMQUIZ_TELEGRAM_TOKEN", "TELEGRAM_API_TOKEN"},
		"env":            {"TERMQUIZ_ENV", "APP_ENV"},
	}
	for key, envs := range aliases {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// configDir returns $XDG_CONFIG_HOME/termquiz, falling back to
// ~/.config/termquiz.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "termquiz"), nil
}

// QuizConfig returns the generator configuration. Validators are the
// quizgen defaults with the option count pinned.
func (c *Config) QuizConfig() quizgen.Config {
	q := quizgen.DefaultConfig()
	q.TotalCount = c.Generation.Count
	q.DistractorCount = c.Generation.Distractors
	q.MaxDraws = c.Generation.MaxDraws
	q.PreferSameCategory = c.Generation.SameCategory
	q.TagCategory = c.Generation.TagCategory
	q.Validators = []quizgen.Validator{
		&quizgen.StructuralValidator{Options: q.OptionCount()},
	}
	return q
}

// ProviderConfig returns the llm configuration. With no provider set, the
// standard ANTHROPIC_API_KEY style variables are probed; ok is false when
// nothing is configured.
func (c LLMConfig) ProviderConfig() (cfg llm.Config, ok bool) {
	if c.Provider == "" {
		return llm.DiscoverConfig()
	}

	cfg = llm.DefaultConfig()
	cfg.Provider = c.Provider
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	cfg.Anthropic = llm.AnthropicConfig{APIKey: c.Anthropic.APIKey, Model: c.Anthropic.Model, BaseURL: c.Anthropic.BaseURL}
	cfg.OpenAI = llm.OpenAIConfig{APIKey: c.OpenAI.APIKey, Model: c.OpenAI.Model, BaseURL: c.OpenAI.BaseURL}
	cfg.Gemini = llm.GeminiConfig{APIKey: c.Gemini.APIKey, Model: c.Gemini.Model, BaseURL: c.Gemini.BaseURL}
	cfg.OpenRouter = llm.OpenRouterConfig{APIKey: c.OpenRouter.APIKey, Model: c.OpenRouter.Model, BaseURL: c.OpenRouter.BaseURL}
	return cfg, true
}
