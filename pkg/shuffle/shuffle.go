// Package shuffle provides an in-place uniform random permutation for the
// session queue.
package shuffle

import "math/rand"

// Slice shuffles items in place using Fisher-Yates. Every index i from 0 to
// len-2 swaps with an index drawn uniformly from [i, len-1], which yields
// each of the n! permutations with equal probability. Sequences of length 0
// or 1 are left untouched.
//
// A nil r falls back to the shared math/rand source; tests pass a seeded
// *rand.Rand for deterministic runs.
func Slice[T any](items []T, r *rand.Rand) {
	intn := rand.Intn
	if r != nil {
		intn = r.Intn
	}

	for i := 0; i < len(items)-1; i++ {
		j := i + intn(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
}
