// Package bell computes Bell and Stirling (second kind) numbers via
// the Bell triangle, used to size progress reporting and to bound the
// search space before the engine starts enumerating.
package bell

import "github.com/pkg/errors"

// Triangle holds a precomputed Bell triangle up to some n, from which
// Bell(k) and Stirling2(k, j) for k <= n can be read off directly.
type Triangle struct {
	rows [][]uint64
}

// Build computes the Bell triangle for 0..n inclusive.
//
//	T[0] = [1]
//	T[i][0] = T[i-1][i-1]
//	T[i][j] = T[i][j-1] + T[i-1][j-1]
//	B(n) = T[n-1][n-1], with B(0) = B(1) = 1.
func Build(n int) (*Triangle, error) {
	if n < 0 {
		return nil, errors.Errorf("bell: n must be non-negative, got %d", n)
	}
	if n == 0 {
		return &Triangle{rows: [][]uint64{{1}}}, nil
	}

	rows := make([][]uint64, n)
	rows[0] = []uint64{1}
	for i := 1; i < n; i++ {
		rows[i] = make([]uint64, i+1)
		rows[i][0] = rows[i-1][i-1]
		for j := 1; j <= i; j++ {
			rows[i][j] = rows[i][j-1] + rows[i-1][j-1]
		}
	}

	return &Triangle{rows: rows}, nil
}

// Number returns the Bell number B(n) for any n up to the n this
// Triangle was built for; B(0) and B(1) are always 1.
func (t *Triangle) Number(n int) uint64 {
	if n <= 1 {
		return 1
	}
	row := t.rows[n-1]
	return row[len(row)-1]
}

// Stirling2 returns S(n, k), the number of ways to partition an
// n-element set into exactly k non-empty blocks. It does not use the
// Bell triangle, which does not store Stirling numbers in a directly
// indexable way; it computes S(n, k) from its own recurrence below.
func Stirling2(n, k int) uint64 {
	if n < 0 || k < 0 || k > n {
		return 0
	}
	if n == 0 && k == 0 {
		return 1
	}
	if k == 0 || k > n {
		return 0
	}

	// Standard recurrence S(n,k) = k*S(n-1,k) + S(n-1,k-1), computed
	// iteratively over a rolling table to avoid recursion.
	prev := make([]uint64, n+1)
	prev[0] = 1
	for i := 1; i <= n; i++ {
		cur := make([]uint64, n+1)
		for j := 1; j <= i; j++ {
			cur[j] = uint64(j)*prev[j] + prev[j-1]
		}
		prev = cur
	}

	return prev[k]
}

// Number computes B(n) without requiring a pre-built Triangle, for
// one-off callers (e.g. CLI size warnings).
func Number(n int) (uint64, error) {
	t, err := Build(n)
	if err != nil {
		return 0, err
	}
	return t.Number(n), nil
}
