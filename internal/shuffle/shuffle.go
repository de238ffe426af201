// Package shuffle produces uniformly random permutations.
package shuffle

import "math/rand/v2"

// Shuffle returns a shuffled copy of in. The input is never modified.
func Shuffle[T any](in []T) []T {
	return With(nil, in)
}

// With shuffles a copy of in using r, or the global source when r is nil.
// A seeded r makes the permutation replayable.
func With[T any](r *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}
