// Package pruner implements the fast, necessary-but-not-sufficient
// rejection test used before the expensive per-permutation mapping
// check: a partition pair can only admit a valid bijection if, sorted
// descending, no output block sum exceeds the input block sum at the
// same rank.
package pruner

import "sort"

// CanAdmit returns true if a valid bijection between inputSums and
// outputSums (equal length, one sum per block) might exist, false if
// none can. It has no false negatives: if it returns false, brute-force
// enumeration of every bijection would find none valid.
func CanAdmit(inputSums, outputSums []int64) bool {
	if len(inputSums) != len(outputSums) {
		return false
	}

	a := sortedDesc(inputSums)
	b := sortedDesc(outputSums)

	for i := range a {
		if b[i] > a[i] {
			return false
		}
	}
	return true
}

func sortedDesc(vals []int64) []int64 {
	out := make([]int64, len(vals))
	copy(out, vals)
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}
