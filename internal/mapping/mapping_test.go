package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutationIteratorCount(t *testing.T) {
	t.Parallel()

	for k := 0; k <= 5; k++ {
		it := NewPermutationIterator(k)
		count := 0
		seen := make(map[string]bool)
		for {
			p, ok := it.Next()
			if !ok {
				break
			}
			count++
			key := ""
			for _, v := range p {
				key += string(rune('0' + v))
			}
			assert.False(t, seen[key], "duplicate permutation")
			seen[key] = true
		}
		want := 1
		for i := 2; i <= k; i++ {
			want *= i
		}
		assert.Equalf(t, want, count, "k=%d", k)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Valid([]int64{10, 5}, []int64{5, 5}, []int{0, 1}))
	assert.False(t, Valid([]int64{10, 5}, []int64{5, 6}, []int{0, 1}))
	assert.True(t, Valid([]int64{10, 5}, []int64{5, 10}, []int{1, 0}))
}

func TestAllValidExhaustive(t *testing.T) {
	t.Parallel()

	inSums := []int64{10, 5, 3}
	outSums := []int64{3, 10, 5}

	sigmas := AllValid(inSums, outSums)
	require.NotEmpty(t, sigmas)
	// Only out 3 fits in 3 and then only out 5 fits in 5, so exactly one
	// of the 3! bijections is valid.
	assert.Equal(t, [][]int{{1, 2, 0}}, sigmas)

	for _, sigma := range sigmas {
		for i, j := range sigma {
			assert.LessOrEqualf(t, outSums[j], inSums[i], "sigma=%v", sigma)
		}
	}
}

func TestSubsetPairsSatisfyValueInequality(t *testing.T) {
	t.Parallel()

	inSums := []int64{5, 3}
	outSums := []int64{4, 2}

	pairs := SubsetPairs(inSums, outSums)
	require.NotEmpty(t, pairs)

	for _, p := range pairs {
		inIdx := MaskToIndices(p[0], len(inSums))
		outIdx := MaskToIndices(p[1], len(outSums))
		require.NotEmpty(t, inIdx)
		require.NotEmpty(t, outIdx)

		var inTotal, outTotal int64
		for _, idx := range inIdx {
			inTotal += inSums[idx]
		}
		for _, idx := range outIdx {
			outTotal += outSums[idx]
		}
		assert.LessOrEqual(t, outTotal, inTotal)
	}
}

func TestSubsetPairsDoesNotRequireComplements(t *testing.T) {
	t.Parallel()

	// Regression for the preserved open question: A and I\A need not
	// both appear, and neither is required when the other is present.
	inSums := []int64{100}
	outSums := []int64{50}

	pairs := SubsetPairs(inSums, outSums)
	assert.Len(t, pairs, 1)
}

func TestMaskToIndices(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []uint16{0, 2}, MaskToIndices(0b101, 3))
}
