package quizgen

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolTooSmall means the pool cannot supply enough distinct
	// distractors for a question.
	ErrPoolTooSmall = errors.New("term pool too small")

	// ErrEmptyPool is the zero-entry case of ErrPoolTooSmall.
	ErrEmptyPool = fmt.Errorf("%w: pool is empty", ErrPoolTooSmall)

	// ErrInvalidConfig means a Config field is out of range.
	ErrInvalidConfig = errors.New("invalid generation config")
)

// PoolSizeError reports a pool that is smaller than a run requires.
type PoolSizeError struct {
	Size     int // entries in the pool
	Required int // entries needed: distractors plus the correct one
}

func (e *PoolSizeError) Error() string {
	return fmt.Sprintf("term pool has %d entries, need at least %d", e.Size, e.Required)
}

func (e *PoolSizeError) Unwrap() error {
	if e.Size == 0 {
		return ErrEmptyPool
	}
	return ErrPoolTooSmall
}
