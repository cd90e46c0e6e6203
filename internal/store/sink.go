package store

import (
	"context"

	"github.com/abhisek/termquiz/internal/dataset"
	"github.com/abhisek/termquiz/internal/quizgen"
)

// Sink records generation runs in the store.
type Sink struct {
	Runs RunRepo
}

// NewSink returns a dataset.Sink that saves runs to s.
func NewSink(s *Store) *Sink {
	return &Sink{Runs: s.RunRepo()}
}

func (k *Sink) Write(ctx context.Context, run dataset.Run, questions []quizgen.Question) error {
	return k.Runs.SaveRun(ctx, run, questions)
}

var _ dataset.Sink = (*Sink)(nil)
