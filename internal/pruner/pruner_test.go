package pruner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/txflow/txflow/internal/mapping"
)

func TestCanAdmitLengthMismatch(t *testing.T) {
	t.Parallel()
	assert.False(t, CanAdmit([]int64{1, 2}, []int64{1}))
}

func TestCanAdmitDominance(t *testing.T) {
	t.Parallel()

	assert.True(t, CanAdmit([]int64{10, 5}, []int64{9, 4}))
	assert.False(t, CanAdmit([]int64{10, 5}, []int64{9, 20}))
}

// TestCanAdmitHasNoFalseNegatives checks the pruner's soundness claim
// directly against brute-force enumeration: whenever CanAdmit rejects
// a pair, no permutation actually satisfies the per-row inequality.
func TestCanAdmitHasNoFalseNegatives(t *testing.T) {
	t.Parallel()

	cases := [][2][]int64{
		{{5, 5, 5}, {6, 5, 4}},
		{{1, 2, 3}, {3, 3, 3}},
		{{7, 1}, {5, 3}},
		{{4, 4, 4, 4}, {1, 1, 1, 16}},
	}

	for _, c := range cases {
		inSums, outSums := c[0], c[1]
		admits := CanAdmit(inSums, outSums)
		anyValid := len(mapping.AllValid(inSums, outSums)) > 0
		if !admits {
			assert.Falsef(t, anyValid, "pruner rejected %v/%v but a valid bijection exists", inSums, outSums)
		}
	}
}
