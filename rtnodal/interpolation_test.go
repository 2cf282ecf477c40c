package rtnodal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hdivfe/utils"
)

func TestFaceInterpolationSameDegree(t *testing.T) {
	for _, dim := range []int{2, 3} {
		for degree := 0; degree < 3; degree++ {
			el, err := NewElement(dim, degree)
			require.NoError(t, err)
			nFace := el.NDofsPerFace()
			for face := 0; face < 2*dim; face++ {
				im, err := el.FaceInterpolationMatrix(el, face)
				require.NoError(t, err)
				assert.True(t, im.IsReadOnly())
				// Snapping makes this exact
				assert.Equalf(t, 0., im.MaxAbsDiff(eye(nFace)),
					"dim=%d degree=%d face=%d", dim, degree, face)
			}
		}
	}
}

func eye(n int) mat.Matrix {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(n, d)
}

func TestFaceInterpolationRowSums(t *testing.T) {
	for _, dim := range []int{2, 3} {
		els := newElements(t, dim, 0, 1, 2, 3)
		for i, el := range els {
			for _, src := range els[i:] {
				for face := 0; face < 2*dim; face++ {
					im, err := el.FaceInterpolationMatrix(src, face)
					require.NoError(t, err)
					nr, nc := im.Dims()
					assert.Equal(t, src.NDofsPerFace(), nr)
					assert.Equal(t, el.NDofsPerFace(), nc)
					for _, s := range im.RowSums() {
						assert.InDelta(t, 1., s, el.InterpolationTolerance())
					}
					for sub := 0; sub < 1<<(dim-1); sub++ {
						im, err = el.SubfaceInterpolationMatrix(src, sub, face)
						require.NoError(t, err)
						for _, s := range im.RowSums() {
							assert.InDelta(t, 1., s, el.InterpolationTolerance())
						}
					}
				}
			}
		}
	}
}

func TestFaceInterpolationValues(t *testing.T) {
	els := newElements(t, 2, 0, 1, 2)
	// Constant face functions interpolate to ones
	im, err := els[0].FaceInterpolationMatrix(els[2], 1)
	require.NoError(t, err)
	assert.Equal(t, 0., im.MaxAbsDiff(utils.NewMatrix(3, 1, []float64{1, 1, 1})))
	// Linear onto the Gauss-Lobatto points 0, 1/2, 1
	im, err = els[1].FaceInterpolationMatrix(els[2], 2)
	require.NoError(t, err)
	want := utils.NewMatrix(3, 2, []float64{
		1, 0,
		0.5, 0.5,
		0, 1,
	})
	assert.InDelta(t, 0., im.MaxAbsDiff(want), 1.e-14)
	im, err = els[1].SubfaceInterpolationMatrix(els[1], 1, 3)
	require.NoError(t, err)
	want = utils.NewMatrix(2, 2, []float64{
		0.5, 0.5,
		0, 1,
	})
	assert.InDelta(t, 0., im.MaxAbsDiff(want), 1.e-14)
}

func TestFaceInterpolationErrors(t *testing.T) {
	els := newElements(t, 2, 0, 2)
	_, err := els[1].FaceInterpolationMatrix(els[0], 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
	_, err = els[0].FaceInterpolationMatrix(NewNothing(2, true), 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
	_, err = els[0].FaceInterpolationMatrix(foreignElement{dim: 2}, 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
	_, err = els[0].FaceInterpolationMatrix(els[1], 4)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = els[0].SubfaceInterpolationMatrix(els[1], 2, 0)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = els[0].SubfaceInterpolationMatrix(els[1], -1, 0)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = els[0].FaceInterpolationMatrix(newElements(t, 3, 2)[0], 0)
	assert.ErrorIs(t, err, utils.ErrDimensionMismatch)
}
