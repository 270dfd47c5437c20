package shuffle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	t.Run("empty slice is a no-op", func(t *testing.T) {
		var items []string
		Slice(items, rand.New(rand.NewSource(1)))
		assert.Empty(t, items)
	})

	t.Run("single element is unchanged", func(t *testing.T) {
		items := []string{"only"}
		Slice(items, rand.New(rand.NewSource(1)))
		assert.Equal(t, []string{"only"}, items)
	})

	t.Run("produces a permutation of the input", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}
		Slice(items, r)

		assert.Len(t, items, 8)
		assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items)
	})

	t.Run("is deterministic for a fixed seed", func(t *testing.T) {
		first := []int{1, 2, 3, 4, 5}
		second := []int{1, 2, 3, 4, 5}
		Slice(first, rand.New(rand.NewSource(7)))
		Slice(second, rand.New(rand.NewSource(7)))
		assert.Equal(t, first, second)
	})

	t.Run("distributes occupants roughly uniformly", func(t *testing.T) {
		// Count how often each element lands in position 0 over many trials.
		// With n=4, each element should land there about trials/4 times.
		const trials = 20000
		r := rand.New(rand.NewSource(99))
		counts := make(map[int]int)

		for range trials {
			items := []int{0, 1, 2, 3}
			Slice(items, r)
			counts[items[0]]++
		}

		require.Len(t, counts, 4)
		expected := trials / 4
		for element, count := range counts {
			assert.InDelta(t, expected, count, float64(expected)/10,
				"element %d appeared %d times in position 0", element, count)
		}
	})
}
