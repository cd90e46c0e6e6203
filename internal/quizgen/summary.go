package quizgen

// Summary counts how a dataset is spread across phrasings, categories and
// correct-answer positions.
type Summary struct {
	Total        int
	ByType       map[QuestionType]int
	ByCategory   map[string]int
	ByTerm       map[string]int
	ByCorrectPos map[int]int
}

// Summarize tallies questions. Questions loaded from a dataset file carry no
// type, term or category and are counted under the empty key.
func Summarize(questions []Question) Summary {
	s := Summary{
		Total:        len(questions),
		ByType:       make(map[QuestionType]int),
		ByCategory:   make(map[string]int),
		ByTerm:       make(map[string]int),
		ByCorrectPos: make(map[int]int),
	}
	for _, q := range questions {
		s.ByType[q.Type]++
		s.ByCategory[q.Category]++
		s.ByTerm[q.Term]++
		s.ByCorrectPos[q.CorrectIndex]++
	}
	return s
}
