package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

// IsPermutation checks that I is a bijection on [0,len(I))
func (I Index) IsPermutation() bool {
	seen := make([]bool, len(I))
	for _, val := range I {
		if val < 0 || val >= len(I) || seen[val] {
			return false
		}
		seen[val] = true
	}
	return true
}

// Invert returns J such that J[I[i]] = i
func (I Index) Invert() (J Index, err error) {
	if !I.IsPermutation() {
		err = fmt.Errorf("index of length %d is not a permutation: %w",
			len(I), ErrInternal)
		return
	}
	J = make(Index, len(I))
	for i, val := range I {
		J[val] = i
	}
	return
}

// Compose returns the index K[i] = I[J[i]]
func (I Index) Compose(J Index) (K Index) {
	K = make(Index, len(J))
	for i, val := range J {
		K[i] = I[val]
	}
	return
}

// MultiIndex decomposes a lexicographic index with the first axis running
// fastest into per-axis indices given the per-axis extents
func MultiIndex(ind int, extents []int) (mi []int) {
	mi = make([]int, len(extents))
	for a, n := range extents {
		mi[a] = ind % n
		ind /= n
	}
	return
}

// LexIndex is the inverse of MultiIndex
func LexIndex(mi []int, extents []int) (ind int) {
	stride := 1
	for a, n := range extents {
		ind += mi[a] * stride
		stride *= n
	}
	return
}
