package txrecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRejectsEmptyID(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	err := b.AddInput("", 100)
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestBuilderRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	assert.ErrorIs(t, b.AddInput("in0", 0), ErrNonPositiveAmount)
	assert.ErrorIs(t, b.AddOutput("out0", -5), ErrNonPositiveAmount)
}

func TestBuilderRejectsDuplicateID(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.AddInput("in0", 100))
	assert.ErrorIs(t, b.AddInput("in0", 50), ErrDuplicateID)
}

func TestBuilderBuildsConsistentRecord(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.AddInput("in0", 100))
	require.NoError(t, b.AddInput("in1", 200))
	require.NoError(t, b.AddOutput("out0", 250))

	rec := b.Build()

	assert.Equal(t, []string{"in0", "in1"}, rec.InputIDs())
	assert.Equal(t, []string{"out0"}, rec.OutputIDs())
	assert.Equal(t, int64(300), rec.TotalIn())
	assert.Equal(t, int64(250), rec.TotalOut())
	assert.Equal(t, int64(50), rec.Fee())
	assert.True(t, rec.Valid())
}

func TestRecordInvalidWhenOutputsExceedInputs(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.AddInput("in0", 100))
	require.NoError(t, b.AddOutput("out0", 150))

	rec := b.Build()
	assert.False(t, rec.Valid())
	assert.Equal(t, int64(-50), rec.Fee())
}

func TestSumIDs(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.AddInput("a", 1))
	require.NoError(t, b.AddInput("b", 2))
	require.NoError(t, b.AddOutput("c", 3))

	rec := b.Build()
	assert.Equal(t, int64(3), rec.SumInputIDs([]string{"a", "b"}))
	assert.Equal(t, int64(3), rec.SumOutputIDs([]string{"c"}))
}
