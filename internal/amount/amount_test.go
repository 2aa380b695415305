package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want Amount
	}{
		{"whole", "1", 1 * SatoshisPerUnit},
		{"fraction", "0.5", 50_000_000},
		{"full precision", "0.00000001", 1},
		{"negative", "-1.5", -150_000_000},
		{"no whole part", ".25", 25_000_000},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDecimal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDecimalRejectsExcessPrecision(t *testing.T) {
	t.Parallel()
	_, err := ParseDecimal("0.000000001")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	a, err := ParseDecimal("12.34500000")
	require.NoError(t, err)
	assert.Equal(t, "12.34500000", a.String())
}

func TestSum(t *testing.T) {
	t.Parallel()
	got := Sum([]Amount{1, 2, 3})
	assert.Equal(t, Amount(6), got)
}
