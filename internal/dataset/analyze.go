package dataset

import (
	"regexp"
	"slices"
	"strings"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Report lists the IDs of questions with each kind of defect.
type Report struct {
	Total            int   `json:"total"`
	EmptyOptions     []int `json:"empty_options"`
	WrongOptionCount []int `json:"wrong_option_count"`
	IndexOutOfRange  []int `json:"index_out_of_range"`
	DuplicateOptions []int `json:"duplicate_options"`
	MergedLabels     []int `json:"merged_labels"`
	DuplicateIDs     []int `json:"duplicate_ids"`
}

// Problematic returns the sorted, distinct IDs of every question with at
// least one defect.
func (r Report) Problematic() []int {
	var all []int
	for _, ids := range [][]int{
		r.EmptyOptions, r.WrongOptionCount, r.IndexOutOfRange,
		r.DuplicateOptions, r.MergedLabels, r.DuplicateIDs,
	} {
		all = append(all, ids...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// OK reports whether no defects were found.
func (r Report) OK() bool {
	return len(r.Problematic()) == 0
}

// labelMarker matches "a." style markers, ASCII or full-width period.
var labelMarker = regexp.MustCompile(`[a-zA-Z][.．]`)

// hasMergedLabels reports question text that refers to blanks "a～c" but
// never lays them out with "a." markers.
func hasMergedLabels(text string) bool {
	if !strings.Contains(text, "a～") && !strings.Contains(text, "a~") {
		return false
	}
	return !labelMarker.MatchString(text)
}

// Analyze inspects questions for defects. optionCount is the expected number
// of options per question; zero skips that check.
func Analyze(questions []quizgen.Question, optionCount int) Report {
	r := Report{Total: len(questions)}
	seenIDs := make(map[int]int)

	for _, q := range questions {
		if seenIDs[q.ID]++; seenIDs[q.ID] == 2 {
			r.DuplicateIDs = append(r.DuplicateIDs, q.ID)
		}

		if len(q.Options) == 0 || allBlank(q.Options) {
			r.EmptyOptions = append(r.EmptyOptions, q.ID)
		}
		if optionCount > 0 && len(q.Options) != optionCount {
			r.WrongOptionCount = append(r.WrongOptionCount, q.ID)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			r.IndexOutOfRange = append(r.IndexOutOfRange, q.ID)
		}
		if (&quizgen.DistinctOptionsValidator{}).Validate(&q) != nil && !allBlank(q.Options) {
			r.DuplicateOptions = append(r.DuplicateOptions, q.ID)
		}
		if hasMergedLabels(q.Text) {
			r.MergedLabels = append(r.MergedLabels, q.ID)
		}
	}
	return r
}

func allBlank(options []string) bool {
	for _, o := range options {
		if strings.TrimSpace(o) != "" {
			return false
		}
	}
	return true
}
