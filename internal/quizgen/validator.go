package quizgen

import (
	"fmt"
	"strings"
)

// Validator checks a generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator  string // Name of the validator that failed
	QuestionID int    // ID of the offending question, 0 if not yet assigned
	Message    string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	if e.QuestionID > 0 {
		return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.QuestionID, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that required fields are present and the
// correct index points at an option.
type StructuralValidator struct {
	// Options is the exact number of options expected. Zero accepts any
	// count of two or more.
	Options int
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: msg}
	}

	if strings.TrimSpace(q.Text) == "" {
		return fail("question text is empty")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fail("explanation is empty")
	}
	if v.Options > 0 && len(q.Options) != v.Options {
		return fail(fmt.Sprintf("expected %d options, got %d", v.Options, len(q.Options)))
	}
	if len(q.Options) < 2 {
		return fail(fmt.Sprintf("expected at least 2 options, got %d", len(q.Options)))
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fail(fmt.Sprintf("option %d is empty", i))
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fail(fmt.Sprintf("correct index %d out of range [0,%d)", q.CorrectIndex, len(q.Options)))
	}
	return nil
}

// DistinctOptionsValidator rejects questions with two identical options.
type DistinctOptionsValidator struct{}

func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v *DistinctOptionsValidator) Validate(q *Question) *ValidationError {
	seen := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		if j, ok := seen[o]; ok {
			return &ValidationError{
				Validator:  v.Name(),
				QuestionID: q.ID,
				Message:    fmt.Sprintf("options %d and %d are identical", j, i),
			}
		}
		seen[o] = i
	}
	return nil
}
