package dataset

import (
	"errors"
	"fmt"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// ErrQuestionNotFound is returned when no question has the requested ID.
var ErrQuestionNotFound = errors.New("question not found")

// Patch replaces the explanation of the question with the given ID in place.
func Patch(questions []quizgen.Question, id int, explanation string) error {
	for i := range questions {
		if questions[i].ID == id {
			questions[i].Explanation = explanation
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrQuestionNotFound, id)
}

// PatchFile rewrites one explanation in a dataset file.
func PatchFile(path string, id int, explanation string) error {
	questions, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := Patch(questions, id, explanation); err != nil {
		return err
	}
	return WriteFile(path, questions)
}
