package quizgen

import "math/rand/v2"

// ShuffleWithIndex returns correct and distractors in a uniformly random
// order, along with the position of correct in that order.
//
// The position is found by pool index, so entries that happen to share a
// description string are still told apart.
func ShuffleWithIndex(rng *rand.Rand, correct int, distractors []int) ([]int, int) {
	ordered := make([]int, 0, len(distractors)+1)
	ordered = append(ordered, correct)
	ordered = append(ordered, distractors...)

	// Fisher-Yates.
	for k := len(ordered) - 1; k > 0; k-- {
		j := rng.IntN(k + 1)
		ordered[k], ordered[j] = ordered[j], ordered[k]
	}

	for i, idx := range ordered {
		if idx == correct {
			return ordered, i
		}
	}
	return ordered, -1
}
