// Package quizgen synthesizes multiple-choice questions from a term pool.
package quizgen

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/abhisek/termquiz/internal/termpool"
)

// Generator produces question datasets from a term pool. It owns its random
// source and is not safe for concurrent use.
type Generator struct {
	config Config
	rng    *rand.Rand
}

// New creates a Generator. A nil rng is replaced by one seeded with
// RandomSeed.
func New(cfg Config, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = NewRand(RandomSeed())
	}
	return &Generator{config: cfg, rng: rng}
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.config
}

// Check reports whether a run over pool can succeed: the config must be
// valid and the pool must hold at least DistractorCount+1 entries.
func (g *Generator) Check(pool *termpool.Pool) error {
	if err := g.config.Validate(); err != nil {
		return err
	}
	if pool == nil || pool.Size() < g.config.OptionCount() {
		size := 0
		if pool != nil {
			size = pool.Size()
		}
		return &PoolSizeError{Size: size, Required: g.config.OptionCount()}
	}
	return nil
}

// Records returns a lazy sequence of TotalCount questions with IDs 1..N.
// Preconditions are checked before the sequence is returned. Every range
// over the sequence draws fresh randomness.
func (g *Generator) Records(pool *termpool.Pool) (iter.Seq2[Question, error], error) {
	if err := g.Check(pool); err != nil {
		return nil, err
	}

	return func(yield func(Question, error) bool) {
		for id := 1; id <= g.config.TotalCount; id++ {
			q, err := g.next(pool, id)
			if !yield(q, err) || err != nil {
				return
			}
		}
	}, nil
}

// Generate returns all TotalCount questions. On any error no questions are
// returned.
func (g *Generator) Generate(pool *termpool.Pool) ([]Question, error) {
	seq, err := g.Records(pool)
	if err != nil {
		return nil, err
	}

	out := make([]Question, 0, g.config.TotalCount)
	for q, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// next builds question id: pick the correct entry, sample distractors,
// shuffle, pick a phrasing, format, validate.
func (g *Generator) next(pool *termpool.Pool, id int) (Question, error) {
	correct := g.rng.IntN(pool.Size())

	distractors, err := SampleDistractors(g.rng, pool, correct, g.config.DistractorCount, SampleOptions{
		MaxDraws:           g.config.maxDraws(),
		PreferSameCategory: g.config.PreferSameCategory,
	})
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", id, err)
	}

	ordered, correctIndex := ShuffleWithIndex(g.rng, correct, distractors)

	d := Draft{
		Correct:      correct,
		Distractors:  distractors,
		Ordered:      ordered,
		CorrectIndex: correctIndex,
		Type:         g.pickType(),
	}

	q := FormatQuestion(pool, d, FormatOptions{TagCategory: g.config.TagCategory})
	q.ID = id

	for _, v := range g.config.Validators {
		if verr := v.Validate(&q); verr != nil {
			return Question{}, verr
		}
	}
	return q, nil
}

// pickType chooses each phrasing with probability 1/2.
func (g *Generator) pickType() QuestionType {
	if g.rng.IntN(2) == 0 {
		return TypeTermToDesc
	}
	return TypeDescToTerm
}
