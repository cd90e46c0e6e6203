package enrich

import "github.com/abhisek/termquiz/internal/llm"

// ExplanationSchema defines the JSON schema for explanation rewrites.
var ExplanationSchema = &llm.Schema{
	Name:        "question-explanation",
	Description: "A structured explanation for one multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conclusion": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One sentence naming the correct answer and what it means",
			},
			"reason": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Why the correct option fits the question and the others do not",
			},
			"points": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"minItems":    1,
				"maxItems":    6,
				"description": "Short study points, one per distractor or related term",
			},
		},
		"required":             []any{"conclusion", "reason", "points"},
		"additionalProperties": false,
	},
}
