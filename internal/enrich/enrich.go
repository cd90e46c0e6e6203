// Package enrich rewrites question explanations through a language model.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/termquiz/internal/llm"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// ErrEmptyExplanation means the model answered with blank fields.
var ErrEmptyExplanation = errors.New("model returned an empty explanation")

// Config controls explanation requests.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one question including retries. Zero means no limit.
	Timeout time.Duration

	// Concurrency is the number of questions in flight in EnrichAll.
	Concurrency int
}

// DefaultConfig returns the default enrichment settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
		Concurrency: 4,
	}
}

// Output is the structured explanation returned by the model.
type Output struct {
	Conclusion string   `json:"conclusion"`
	Reason     string   `json:"reason"`
	Points     []string `json:"points"`
}

// Render formats o in the dataset's explanation layout.
func (o Output) Render() string {
	var b strings.Builder
	b.WriteString("【結論】\n")
	b.WriteString(strings.TrimSpace(o.Conclusion))
	b.WriteString("\n\n【理由】\n")
	b.WriteString(strings.TrimSpace(o.Reason))
	b.WriteString("\n\n【ポイント】")
	for _, p := range o.Points {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteString("\n- ")
			b.WriteString(p)
		}
	}
	return b.String()
}

func (o Output) empty() bool {
	if strings.TrimSpace(o.Conclusion) == "" || strings.TrimSpace(o.Reason) == "" {
		return true
	}
	for _, p := range o.Points {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// Service rewrites explanations.
type Service struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a Service. A nil logger discards output.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{provider: provider, config: cfg, logger: logger}
}

// Enrich replaces q.Explanation with a model-written one. On any failure q
// is left untouched and the error is returned.
func (s *Service) Enrich(ctx context.Context, q *quizgen.Question) error {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(systemPrompt, buildUserMessage(q), ExplanationSchema, s.config.MaxTokens)
	req.Temperature = s.config.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("question %d: explanation request failed: %w", q.ID, err)
	}

	var out Output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return fmt.Errorf("question %d: failed to parse explanation: %w", q.ID, err)
	}
	if out.empty() {
		return fmt.Errorf("question %d: %w", q.ID, ErrEmptyExplanation)
	}

	q.Explanation = out.Render()
	return nil
}

// Result reports the outcome for one question.
type Result struct {
	ID  int
	Err error
}

// EnrichAll enriches every question, Concurrency at a time. Failures do not
// stop the batch; each question's outcome is in the returned slice, in
// input order.
func (s *Service) EnrichAll(ctx context.Context, qs []quizgen.Question) []Result {
	results := make([]Result, len(qs))
	sem := make(chan struct{}, s.config.Concurrency)
	var wg sync.WaitGroup

	for i := range qs {
		results[i].ID = qs[i].ID
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.Enrich(ctx, &qs[i]); err != nil {
				results[i].Err = err
				s.logger.Warn("explanation kept",
					zap.Int("question_id", qs[i].ID),
					zap.Error(err))
				return
			}
			s.logger.Debug("explanation rewritten", zap.Int("question_id", qs[i].ID))
		}()
	}

	wg.Wait()
	return results
}

// Failed counts the results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
