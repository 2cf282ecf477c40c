package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// NewPermutationMatrix builds the sparse matrix P with P[I[i], i] = 1, so that
// P * x moves the entry x[i] to position I[i]
func NewPermutationMatrix(I Index) (P *sparse.CSR, err error) {
	if !I.IsPermutation() {
		err = fmt.Errorf("index of length %d is not a permutation: %w",
			len(I), ErrInternal)
		return
	}
	dok := sparse.NewDOK(len(I), len(I))
	for i, val := range I {
		dok.Set(val, i, 1.)
	}
	P = dok.ToCSR()
	return
}

// NewSparseFromDense drops entries with magnitude below tol
func NewSparseFromDense(A mat.Matrix, tol float64) (S *sparse.CSR) {
	var (
		nr, nc = A.Dims()
		dok    = sparse.NewDOK(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if val := A.At(i, j); val > tol || val < -tol {
				dok.Set(i, j, val)
			}
		}
	}
	S = dok.ToCSR()
	return
}
