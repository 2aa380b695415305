package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txflow/txflow/internal/result"
)

func openTemp(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)
	return f
}

func TestCSVSinkPartitionMappingWritesHeaderAndRows(t *testing.T) {
	f := openTemp(t)
	path := f.Name()

	s, err := NewCSVSink(f, ModePartitionMapping)
	require.NoError(t, err)

	id, err := s.EmitMapping(result.Mapping{
		GroupCount:      1,
		TotalInput:      100,
		TotalOutput:     100,
		TotalDifference: 0,
		Rows: []result.Row{
			{GroupNumber: 0, InputIDs: []string{"in0"}, InputValue: 100, OutputIDs: []string{"out0"}, OutputValue: 100, Difference: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	require.NoError(t, s.Close())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, PartitionMappingHeader[0], rows[0])
	assert.Equal(t, PartitionMappingHeader[1], rows[1])
	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "1", rows[3][0])
}

func TestCSVSinkSubsetPairs(t *testing.T) {
	f := openTemp(t)
	s, err := NewCSVSink(f, ModeSubsetPairs)
	require.NoError(t, err)

	_, err = s.EmitCombination(result.Combination{
		InputIDs:    []string{"in0"},
		InputValue:  100,
		OutputIDs:   []string{"out0"},
		OutputValue: 90,
		Difference:  10,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, uint64(1), s.ValidCount())
}

func TestCSVSinkAssignsDenseIDs(t *testing.T) {
	f := openTemp(t)
	s, err := NewCSVSink(f, ModeSubsetPairs)
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 5; i++ {
		id, err := s.EmitCombination(result.Combination{InputIDs: []string{"a"}, OutputIDs: []string{"b"}})
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), id)
	}
}
