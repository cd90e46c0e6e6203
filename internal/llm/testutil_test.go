package llm

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/abhisek/termquiz/internal/store"
)

func explanationSchema() *Schema {
	return &Schema{
		Name:        "test-explanation",
		Description: "Structured explanation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"conclusion": map[string]any{"type": "string", "minLength": 1},
				"reason":     map[string]any{"type": "string"},
				"points": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"conclusion", "reason", "points"},
			"additionalProperties": false,
		},
	}
}

const validExplanation = `{"conclusion":"正解はSLAです。","reason":"SLAはサービス水準の合意です。","points":["RPAは自動化","IoTはモノのインターネット"]}`

func explanationRequest() Request {
	return UserPrompt("あなたはITパスポート試験の講師です。", "次の問題の解説を書いてください。", explanationSchema(), 512)
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
