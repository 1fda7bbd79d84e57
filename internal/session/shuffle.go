package session

import "math/rand/v2"

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intN(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

// BuildChoiceSet returns the correct meaning plus up to three distinct
// distractors drawn from pool, in random order. The correct meaning appears
// exactly once and no value repeats.
func BuildChoiceSet(correct string, pool []string, rng *rand.Rand) []string {
	seen := map[string]struct{}{correct: {}}
	var distractors []string
	for _, m := range pool {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		distractors = append(distractors, m)
	}

	distractors = Shuffle(distractors, rng)
	if len(distractors) > 3 {
		distractors = distractors[:3]
	}

	return Shuffle(append([]string{correct}, distractors...), rng)
}
