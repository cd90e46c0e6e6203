package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", validExplanation, false},
		{"empty points", `{"conclusion":"c","reason":"r","points":[]}`, false},
		{"missing reason", `{"conclusion":"c","points":[]}`, true},
		{"empty conclusion", `{"conclusion":"","reason":"r","points":[]}`, true},
		{"points not strings", `{"conclusion":"c","reason":"r","points":[1]}`, true},
		{"extra field", `{"conclusion":"c","reason":"r","points":[],"x":1}`, true},
		{"not json", `{"conclusion":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(explanationSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %v", err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("expected offending content to be kept, got %s", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	s := &Schema{Name: "cache-test", Definition: map[string]any{"type": "object"}}
	a, err := compileSchema(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := compileSchema(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatal("expected the compiled schema to be reused")
	}
}

func TestCompileSchema_InvalidDefinition(t *testing.T) {
	s := &Schema{Name: "broken-test", Definition: map[string]any{"type": 12}}
	if _, err := compileSchema(s); err == nil {
		t.Fatal("expected compile error")
	}
}
