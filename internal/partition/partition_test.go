package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, n int) []IndexPartition {
	t.Helper()
	g, err := New(n)
	require.NoError(t, err)

	var all []IndexPartition
	for g.HasMore() {
		all = append(all, g.NextChunk(2)...)
	}
	return all
}

func TestGeneratorCountMatchesBellNumber(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 6; n++ {
		g, err := New(n)
		require.NoError(t, err)
		all := drain(t, n)
		assert.Lenf(t, all, int(g.Total()), "n=%d", n)
	}
}

func TestGeneratorProducesDistinctPartitions(t *testing.T) {
	t.Parallel()

	all := drain(t, 4)
	seen := make(map[string]bool)
	for _, p := range all {
		key := partitionKey(p)
		assert.Falsef(t, seen[key], "duplicate partition %v", p)
		seen[key] = true
	}
}

func TestGeneratorCoversEveryElementExactlyOnce(t *testing.T) {
	t.Parallel()

	for _, p := range drain(t, 5) {
		count := make(map[uint16]int)
		for _, block := range p {
			for _, idx := range block {
				count[idx]++
			}
		}
		for i := uint16(0); i < 5; i++ {
			assert.Equalf(t, 1, count[i], "element %d", i)
		}
	}
}

func TestGeneratorZeroElements(t *testing.T) {
	t.Parallel()

	all := drain(t, 0)
	require.Len(t, all, 1)
	assert.Empty(t, all[0])
}

func TestGeneratorSpecificPartitionsForN3(t *testing.T) {
	t.Parallel()

	all := drain(t, 3)
	keys := make(map[string]bool)
	for _, p := range all {
		keys[partitionKey(p)] = true
	}

	// The 5 = B(3) canonical partitions of {0,1,2}.
	expected := []string{
		"012",
		"01|2",
		"02|1",
		"0|12",
		"0|1|2",
	}
	assert.Len(t, keys, len(expected))
	for _, k := range expected {
		assert.Truef(t, keys[k], "missing partition %s", k)
	}
}

func partitionKey(p IndexPartition) string {
	s := ""
	for i, block := range p {
		if i > 0 {
			s += "|"
		}
		for _, idx := range block {
			s += string(rune('0' + idx))
		}
	}
	return s
}
