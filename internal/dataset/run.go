package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/termquiz/internal/quizgen"
)

// Run describes one generation run.
type Run struct {
	ID              string    `json:"id"`
	Seed            uint64    `json:"seed"`
	Requested       int       `json:"requested"`
	Generated       int       `json:"generated"`
	DistractorCount int       `json:"distractor_count"`
	PoolSource      string    `json:"pool_source"`
	PoolSize        int       `json:"pool_size"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewRun records a finished run of cfg over a pool of poolSize entries.
func NewRun(cfg quizgen.Config, seed uint64, poolSource string, poolSize, generated int) Run {
	return Run{
		ID:              uuid.New().String(),
		Seed:            seed,
		Requested:       cfg.TotalCount,
		Generated:       generated,
		DistractorCount: cfg.DistractorCount,
		PoolSource:      poolSource,
		PoolSize:        poolSize,
		CreatedAt:       time.Now().UTC(),
	}
}
