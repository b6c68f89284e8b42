package mnet

import "fmt"

// Species pairs are ordered row-major over the upper triangle:
// (0,1), (0,2), ..., (0,n-1), (1,2), ... Truth files, estimate files
// and parameter vectors all use this order, so estimates can be
// compared against the truth index for index.

// NPairs returns the number of unordered species pairs.
func NPairs(n int) int {
	return n * (n - 1) / 2
}

// PairIndex returns the position of pair (i, j) in the canonical
// pair order. It panics on a diagonal or out-of-range pair.
func PairIndex(i, j, n int) int {
	if i == j || i < 0 || j < 0 || i >= n || j >= n {
		panic(fmt.Sprintf("mnet: invalid species pair (%d, %d) of %d", i, j, n))
	}
	if i > j {
		i, j = j, i
	}
	return i*(2*n-i-1)/2 + j - i - 1
}

// PairSpecies is the inverse of PairIndex.
func PairSpecies(k, n int) (i, j int) {
	if k < 0 || k >= NPairs(n) {
		panic(fmt.Sprintf("mnet: pair index %d out of range for %d species", k, n))
	}
	for i = 0; i < n-1; i++ {
		row := n - i - 1
		if k < row {
			return i, i + 1 + k
		}
		k -= row
	}
	panic("unreachable")
}

// PairLabel returns the canonical label of a pair, e.g. "sp1-sp3".
func PairLabel(i, j int) string {
	if i > j {
		i, j = j, i
	}
	return fmt.Sprintf("sp%d-sp%d", i+1, j+1)
}
