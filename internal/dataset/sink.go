package dataset

import (
	"context"
	"errors"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Sink receives the output of a generation run.
type Sink interface {
	Write(ctx context.Context, run Run, questions []quizgen.Question) error
}

// FileSink writes the dataset to a JSON file.
type FileSink struct {
	Path string
}

func (s *FileSink) Write(ctx context.Context, _ Run, questions []quizgen.Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFile(s.Path, questions)
}

// MultiSink writes to every sink in order and joins their errors.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, run Run, questions []quizgen.Question) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, run, questions); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
