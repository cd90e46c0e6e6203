package quizgen

// Question is a generated multiple-choice question ready for serialization.
type Question struct {
	// ID is the 1-based position of the question within its run.
	ID int `json:"id"`

	// Text is the question prompt, built from one of the fixed templates.
	Text string `json:"question"`

	// Options holds the shuffled answer choices (DistractorCount+1 of them,
	// four with the default config).
	Options []string `json:"options"`

	// CorrectIndex is the zero-based position of the correct option.
	CorrectIndex int `json:"correctIndex"`

	// Explanation names the correct term and lists every distractor.
	Explanation string `json:"explanation"`

	// Type is the phrasing used for Text. Not part of the dataset format.
	Type QuestionType `json:"-"`

	// Term is the term of the correct entry. Not part of the dataset format.
	Term string `json:"-"`

	// Category is the category of the correct entry. Not part of the dataset format.
	Category string `json:"-"`
}

// Answer returns the text of the correct option, or "" if CorrectIndex is
// out of range.
func (q *Question) Answer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// QuestionType selects which side of an entry is asked for.
type QuestionType string

const (
	// TypeTermToDesc shows the term and asks for its description.
	TypeTermToDesc QuestionType = "term_to_desc"

	// TypeDescToTerm shows the description and asks for the term.
	TypeDescToTerm QuestionType = "desc_to_term"
)

// Draft is an unformatted question: which pool entries were picked and in
// what order they are displayed. All values are pool indexes.
type Draft struct {
	// Correct is the pool index of the correct entry.
	Correct int

	// Distractors are the pool indexes of the wrong entries, in the order
	// they were sampled.
	Distractors []int

	// Ordered is Correct plus Distractors after shuffling.
	Ordered []int

	// CorrectIndex is the position of Correct within Ordered.
	CorrectIndex int

	// Type is the phrasing to use.
	Type QuestionType
}
