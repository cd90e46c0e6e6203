package quizgen

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/termquiz/internal/termpool"
)

// SampleOptions tunes SampleDistractors.
type SampleOptions struct {
	// MaxDraws caps the number of random draws. Zero means DefaultMaxDraws.
	MaxDraws int

	// PreferSameCategory restricts candidates to the excluded entry's
	// category when that category has at least count other entries.
	PreferSameCategory bool
}

// SampleDistractors draws count distinct pool indexes, none equal to
// exclude, uniformly at random. The result is in draw order.
//
// Each draw picks a uniformly random candidate and keeps it only if it was
// not picked before. A pool with fewer than count candidates fails before
// any draw; running out of draws fails too. Both return ErrPoolTooSmall.
func SampleDistractors(rng *rand.Rand, pool *termpool.Pool, exclude, count int, opts SampleOptions) ([]int, error) {
	candidates := distractorCandidates(pool, exclude, count, opts.PreferSameCategory)
	if len(candidates) < count {
		return nil, &PoolSizeError{Size: pool.Size(), Required: count + 1}
	}

	maxDraws := opts.MaxDraws
	if maxDraws <= 0 {
		maxDraws = DefaultMaxDraws
	}

	chosen := make([]int, 0, count)
	taken := make(map[int]bool, count)
	for draws := 0; len(chosen) < count; draws++ {
		if draws >= maxDraws {
			return nil, fmt.Errorf("%w: %d of %d distractors after %d draws",
				ErrPoolTooSmall, len(chosen), count, draws)
		}
		idx := candidates[rng.IntN(len(candidates))]
		if taken[idx] {
			continue
		}
		taken[idx] = true
		chosen = append(chosen, idx)
	}
	return chosen, nil
}

// distractorCandidates returns the pool indexes eligible as distractors for
// the entry at exclude.
func distractorCandidates(pool *termpool.Pool, exclude, count int, sameCategory bool) []int {
	if sameCategory && exclude >= 0 && exclude < pool.Size() {
		var same []int
		for _, idx := range pool.ByCategory(pool.At(exclude).Category) {
			if idx != exclude {
				same = append(same, idx)
			}
		}
		if len(same) >= count {
			return same
		}
	}

	all := make([]int, 0, pool.Size())
	for i := range pool.Size() {
		if i != exclude {
			all = append(all, i)
		}
	}
	return all
}
