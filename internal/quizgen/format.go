package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/termquiz/internal/termpool"
)

const (
	termToDescTemplate = "「%s」の説明として、適切なものはどれか。"
	descToTermTemplate = "「%s」を指す用語として、適切なものはどれか。"
	categoryTag        = "【%s】\n"
)

// FormatOptions tunes FormatQuestion.
type FormatOptions struct {
	// TagCategory prefixes the question text with the correct entry's category.
	TagCategory bool
}

// FormatQuestion renders a draft into a Question. The ID is left at zero for
// the caller to assign.
func FormatQuestion(pool *termpool.Pool, d Draft, opts FormatOptions) Question {
	correct := pool.At(d.Correct)

	var text string
	options := make([]string, len(d.Ordered))
	switch d.Type {
	case TypeDescToTerm:
		text = fmt.Sprintf(descToTermTemplate, correct.Description)
		for i, idx := range d.Ordered {
			options[i] = pool.At(idx).Term
		}
	default:
		text = fmt.Sprintf(termToDescTemplate, correct.Term)
		for i, idx := range d.Ordered {
			options[i] = pool.At(idx).Description
		}
	}

	if opts.TagCategory && correct.Category != "" {
		text = fmt.Sprintf(categoryTag, correct.Category) + text
	}

	qType := d.Type
	if qType != TypeDescToTerm {
		qType = TypeTermToDesc
	}

	return Question{
		Text:         text,
		Options:      options,
		CorrectIndex: d.CorrectIndex,
		Explanation:  buildExplanation(pool, d.Correct, d.Distractors),
		Type:         qType,
		Term:         correct.Term,
		Category:     correct.Category,
	}
}

// buildExplanation lists distractors in sampling order, independent of the
// displayed option order.
func buildExplanation(pool *termpool.Pool, correct int, distractors []int) string {
	c := pool.At(correct)

	var b strings.Builder
	fmt.Fprintf(&b, "正解は「%s」です。\n\n%s\n\n他の選択肢:", c.Term, c.Description)
	for _, idx := range distractors {
		d := pool.At(idx)
		fmt.Fprintf(&b, "\n・%s: %s", d.Term, d.Description)
	}
	return b.String()
}
