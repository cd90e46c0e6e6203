// Package dataset reads, writes and inspects question dataset files.
//
// A dataset is a JSON array of question records:
//
//	[{"id": 1, "question": "...", "options": ["...", ...], "correctIndex": 2, "explanation": "..."}]
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Encode writes questions as an indented JSON array. Non-ASCII text and
// HTML characters are written literally.
func Encode(w io.Writer, questions []quizgen.Question) error {
	if questions == nil {
		questions = []quizgen.Question{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(questions); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Decode reads a JSON array of question records.
func Decode(r io.Reader) ([]quizgen.Question, error) {
	var questions []quizgen.Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return questions, nil
}

// WriteFile writes questions to path. The file is written to a temporary
// sibling first and renamed into place, so readers never see a partial
// dataset.
func WriteFile(path string, questions []quizgen.Question) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, questions); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a dataset file.
func ReadFile(path string) ([]quizgen.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	questions, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}
