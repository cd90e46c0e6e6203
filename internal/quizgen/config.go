package quizgen

import "fmt"

const (
	// DefaultTotalCount is the dataset size produced when none is configured.
	DefaultTotalCount = 1000

	// DefaultDistractorCount gives four options per question.
	DefaultDistractorCount = 3

	// DefaultMaxDraws caps the random draws spent on one question's distractors.
	DefaultMaxDraws = 1000
)

// Config controls the behavior of the Generator.
type Config struct {
	// TotalCount is the number of questions to generate. Zero is allowed
	// and yields an empty dataset.
	TotalCount int

	// DistractorCount is the number of wrong options per question.
	DistractorCount int

	// MaxDraws bounds the accept/reject loop of the distractor sampler.
	// Zero means DefaultMaxDraws.
	MaxDraws int

	// PreferSameCategory draws distractors from the correct entry's
	// category when it holds enough other entries.
	PreferSameCategory bool

	// TagCategory prefixes the question text with 【category】.
	TagCategory bool

	// Validators run in order on every generated question; the first
	// failure aborts the run.
	Validators []Validator
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		TotalCount:      DefaultTotalCount,
		DistractorCount: DefaultDistractorCount,
		MaxDraws:        DefaultMaxDraws,
		Validators: []Validator{
			&StructuralValidator{},
		},
	}
}

// Validate reports configuration values the generator cannot work with.
func (c Config) Validate() error {
	if c.TotalCount < 0 {
		return fmt.Errorf("%w: total count must not be negative, got %d", ErrInvalidConfig, c.TotalCount)
	}
	if c.DistractorCount < 1 {
		return fmt.Errorf("%w: distractor count must be at least 1, got %d", ErrInvalidConfig, c.DistractorCount)
	}
	if c.MaxDraws < 0 {
		return fmt.Errorf("%w: max draws must not be negative, got %d", ErrInvalidConfig, c.MaxDraws)
	}
	return nil
}

// OptionCount is the number of options each question carries.
func (c Config) OptionCount() int {
	return c.DistractorCount + 1
}

func (c Config) maxDraws() int {
	if c.MaxDraws == 0 {
		return DefaultMaxDraws
	}
	return c.MaxDraws
}
