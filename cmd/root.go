package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/config"
	"github.com/abhisek/termquiz/internal/logger"
	"github.com/abhisek/termquiz/internal/store"
	"github.com/abhisek/termquiz/internal/termpool"
)

// Loaded by the root command before any subcommand runs.
var (
	cfg *config.Config
	log = zap.NewNop()
)

// flagKeys maps config keys to the flag names that override them. Only
// flags defined on the running command are bound.
var flagKeys = map[string]string{
	"log_level":                "log-level",
	"store.path":               "db",
	"generation.count":         "count",
	"generation.distractors":   "distractors",
	"generation.seed":          "seed",
	"generation.max_draws":     "max-draws",
	"generation.same_category": "same-category",
	"generation.tag_category":  "tag-category",
	"pool.path":                "pool",
	"output.path":              "out",
	"store.save":               "save",
	"server.addr":              "addr",
	"telegram.chat_id":         "chat-id",
	"telegram.interval":        "interval",
	"llm.provider":             "provider",
}

var rootCmd = &cobra.Command{
	Use:   "termquiz",
	Short: "IT Passport term quiz generator",
	Long: `termquiz builds multiple-choice quiz datasets from a pool of terms and
their descriptions, and checks, enriches, stores and publishes them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the command line with ctx canceled on shutdown signals.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./termquiz.yaml or $XDG_CONFIG_HOME/termquiz/termquiz.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file loaded before reading TERMQUIZ_* variables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TERMQUIZ_DB)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	keys := make(map[string]string)
	for key, name := range flagKeys {
		if cmd.Flags().Lookup(name) != nil {
			keys[key] = name
		}
	}

	c, err := config.Load(config.Options{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
		FlagKeys:   keys,
	})
	if err != nil {
		return err
	}

	l, err := logger.New(c.Env, c.LogLevel)
	if err != nil {
		return err
	}

	cfg, log = c, l
	return nil
}

// openStore opens the run store at --db / store.path, or the default
// location.
func openStore() (*store.Store, error) {
	path := cfg.Store.Path
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		path = p
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", zap.String("path", path))
	return s, nil
}

// loadPool loads pool.path or the built-in pool.
func loadPool() (*termpool.Pool, string, error) {
	pool, source, err := termpool.LoadOrDefault(cfg.Pool.Path)
	if err != nil {
		return nil, "", fmt.Errorf("load pool: %w", err)
	}
	log.Debug("pool loaded", zap.String("source", source), zap.Int("entries", pool.Size()))
	return pool, source, nil
}
