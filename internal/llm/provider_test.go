package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/termquiz/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(validExplanation), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"b":2}`)})

	resp, err := mock.Generate(context.Background(), explanationRequest())
	require.NoError(t, err)
	assert.JSONEq(t, validExplanation, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	resp, err = mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(resp.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "次の問題の解説を書いてください。", mock.Calls[0].Messages[0].Content)
}

func TestUserPrompt(t *testing.T) {
	req := UserPrompt("sys", "hello", nil, 64)
	assert.Equal(t, "sys", req.System)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hello"}}, req.Messages)
	assert.Equal(t, 64, req.MaxTokens)
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	ctx := WithPurpose(context.Background(), PurposeExplanation)
	assert.Equal(t, "explanation", PurposeFrom(ctx))
}

func TestLogging_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(validExplanation),
		Usage:   Usage{InputTokens: 100, OutputTokens: 40, TotalTokens: 140},
	})
	p := WithLogging(mock, "mock", rec, nil)

	ctx := WithPurpose(context.Background(), PurposeExplanation)
	_, err := p.Generate(ctx, explanationRequest())
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "mock", ev.Model)
	assert.Equal(t, "explanation", ev.Purpose)
	assert.Equal(t, 100, ev.InputTokens)
	assert.Equal(t, 40, ev.OutputTokens)
	assert.True(t, ev.Success)
	assert.Empty(t, ev.ErrorMessage)
	assert.Equal(t, validExplanation, ev.ResponseBody)
	assert.Contains(t, ev.RequestBody, "[system]\nあなたはITパスポート試験の講師です。")
	assert.Contains(t, ev.RequestBody, "[user]\n次の問題の解説を書いてください。")
	assert.Contains(t, ev.RequestBody, "[schema: test-explanation]")
}

func TestLogging_RecordsFailure(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, "mock", rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Success)
	assert.Contains(t, rec.events[0].ErrorMessage, "down")
	assert.Equal(t, "unknown", rec.events[0].Purpose)
}

func TestLogging_RecorderFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := &fakeRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", rec, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record LLM request event").Len())
}

// blockingProvider holds every request until its context is done.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestLogging_RecordsTimedOutRequest(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer s.Close()

	p := WithLogging(blockingProvider{}, "mock", s.EventRepo(), nil)

	ctx, cancel := context.WithTimeout(WithPurpose(context.Background(), PurposeExplanation), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, explanationRequest())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, PurposeExplanation, events[0].Purpose)
	assert.Contains(t, events[0].ErrorMessage, "deadline exceeded")
}

func TestSerializeRequest_NoSchema(t *testing.T) {
	got := serializeRequest(Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.Equal(t, "[user]\nhi\n\n", got)
}

func TestNewProvider(t *testing.T) {
	t.Run("mock with recorder", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "mock"
		cfg.Retry.InitialWait = time.Millisecond
		cfg.Retry.MaxWait = time.Millisecond
		rec := &fakeRecorder{}

		p, err := NewProvider(context.Background(), cfg, rec, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", p.ModelID())

		// No canned responses: every attempt fails and is recorded.
		_, err = p.Generate(context.Background(), Request{})
		assert.Error(t, err)
		assert.Len(t, rec.events, cfg.Retry.MaxAttempts)
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := DefaultConfig()
		_, err := NewProvider(context.Background(), cfg, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TERMQUIZ_LLM_ANTHROPIC_API_KEY")
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewProvider(context.Background(), Config{}, nil, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("openai", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = "k"
		p, err := NewProvider(context.Background(), cfg, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", p.ModelID())
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mock", Config{Provider: "mock"}, ""},
		{"anthropic ok", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "k"}}, ""},
		{"gemini missing", Config{Provider: "gemini"}, "TERMQUIZ_LLM_GEMINI_API_KEY"},
		{"openrouter missing", Config{Provider: "openrouter"}, "TERMQUIZ_LLM_OPENROUTER_API_KEY"},
		{"unknown", Config{Provider: "llama"}, `unknown LLM provider: "llama"`},
		{"empty", Config{}, "no LLM provider configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("OPENROUTER_API_KEY", "or")
	t.Setenv("OPENAI_API_KEY", "oa")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "oa", cfg.OpenAI.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-haiku-4-5-20251001")
	require.NotNil(t, c)
	assert.InDelta(t, 0.0015, c.Cost(1000, 100), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}
