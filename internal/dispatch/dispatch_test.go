package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txflow/txflow/internal/partition"
	"github.com/txflow/txflow/internal/result"
)

// recordingSink implements result.Sink by appending every emitted
// mapping to a slice under a mutex, for assertions in tests.
type recordingSink struct {
	mu       sync.Mutex
	mappings []result.Mapping
	nextID   uint64
}

func (s *recordingSink) EmitMapping(m result.Mapping) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.mappings = append(s.mappings, m)
	return s.nextID, nil
}

func (s *recordingSink) EmitCombination(result.Combination) (uint64, error) { return 0, nil }
func (s *recordingSink) Close() error                                       { return nil }

func identityResolver(prefix string) func(partition.IndexSet) []string {
	return func(idx partition.IndexSet) []string {
		out := make([]string, len(idx))
		for i, v := range idx {
			out[i] = prefix + string(rune('0'+v))
		}
		return out
	}
}

func TestDispatcherFindsExactSplit(t *testing.T) {
	t.Parallel()

	// Two inputs of equal value, two outputs of equal value: the valid
	// mappings are the single-block pairing of both inputs with both
	// outputs, and the two singleton pairings (in order and swapped);
	// all of them balance.
	inputAmounts := []int64{100, 100}
	outputAmounts := []int64{100, 100}

	d := &Dispatcher{ChunkSize: 10, Workers: 2}
	sink := &recordingSink{}
	counters := &Counters{}

	err := d.Run(context.Background(), inputAmounts, outputAmounts, identityResolver("in"), identityResolver("out"), sink, counters)
	require.NoError(t, err)

	assert.NotEmpty(t, sink.mappings)
	for _, m := range sink.mappings {
		assert.Equal(t, m.TotalInput, m.TotalOutput)
		assert.Zero(t, m.TotalDifference)
	}
}

func TestDispatcherHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New()
	sink := &recordingSink{}
	counters := &Counters{}

	err := d.Run(ctx, []int64{1, 2, 3}, []int64{1, 2, 3}, identityResolver("in"), identityResolver("out"), sink, counters)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcherReturnsZeroResultsForEmptySides(t *testing.T) {
	t.Parallel()

	d := New()
	counters := &Counters{}

	for _, tc := range [][2][]int64{
		{nil, {100}},
		{{100}, nil},
		{nil, nil},
	} {
		sink := &recordingSink{}
		err := d.Run(context.Background(), tc[0], tc[1], identityResolver("in"), identityResolver("out"), sink, counters)
		require.NoError(t, err)
		assert.Empty(t, sink.mappings)
	}
}

func TestDispatcherPrunesImpossiblePairs(t *testing.T) {
	t.Parallel()

	// No partition of a single 1-unit input can ever cover a single
	// 100-unit output; every pair should be pruned, none valid.
	d := New()
	sink := &recordingSink{}
	counters := &Counters{}

	err := d.Run(context.Background(), []int64{1}, []int64{100}, identityResolver("in"), identityResolver("out"), sink, counters)
	require.NoError(t, err)

	assert.Empty(t, sink.mappings)
	assert.Equal(t, uint64(1), counters.Pruned.Load())
}
