package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

func TestRefinementCase(t *testing.T) {
	assert.Equal(t, RefinementCase(3), IsotropicRefinement(2))
	assert.Equal(t, RefinementCase(7), IsotropicRefinement(3))
	assert.Equal(t, 4, IsotropicRefinement(2).NChildren())
	assert.Equal(t, 8, IsotropicRefinement(3).NChildren())
	assert.Equal(t, 4, RefinementCase(5).NChildren())
	assert.Equal(t, 2, RefinementCase(4).NChildren())
	for _, dim := range []int{1, 2, 3} {
		assert.Equal(t, MaxChildrenPerCell(dim), IsotropicRefinement(dim).NChildren())
	}
	assert.Equal(t, []int{0, 2}, RefinementCase(5).CutAxes(3))
	assert.Equal(t, "cut_xz", RefinementCase(5).String())

	assert.ErrorIs(t, NoRefinement.Validate(2), utils.ErrPreconditionViolation)
	assert.ErrorIs(t, RefinementCase(4).Validate(2), utils.ErrPreconditionViolation)
	assert.NoError(t, RefinementCase(4).Validate(3))
	assert.ErrorIs(t, RefinementCase(1).ValidateChild(2, 2), utils.ErrPreconditionViolation)

	// cut_y in 3D: child 1 is the upper half in y
	p := RefinementCase(2).ChildToParent(3, 1, []float64{0.2, 0.4, 0.6})
	assert.InDeltaSlice(t, []float64{0.2, 0.7, 0.6}, p, 1.e-15)
	p = IsotropicRefinement(2).ChildToParent(2, 2, []float64{0, 1})
	assert.InDeltaSlice(t, []float64{0, 1}, p, 1.e-15)
	assert.Equal(t, 0.5, RefinementCase(2).Scale(1))
	assert.Equal(t, 1., RefinementCase(2).Scale(0))
}

func TestFaces(t *testing.T) {
	assert.Equal(t, 6, FacesPerCell(3))
	assert.Equal(t, 1, UnitNormalDirection(3))
	assert.Equal(t, 2, OppositeFace(3))
	assert.Equal(t, []int{0, 2}, FaceAxes(3, 2))
	assert.Equal(t, []float64{0.3, 1, 0.7}, FacePoint(3, 3, []float64{0.3, 0.7}))
}

func TestProjectToSubface(t *testing.T) {
	gl, err := quadrature.GaussLobatto(2)
	require.NoError(t, err)
	q, err := quadrature.Tensor(gl, 2)
	require.NoError(t, err)

	pq, err := ProjectToFace(3, q, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0}, pq.Points[3])

	pq, err = ProjectToSubface(3, q, 1, 2)
	require.NoError(t, err)
	// subface 2 is the upper half of the second face axis (z) of face 1
	assert.Equal(t, []float64{1, 0, 0.5}, pq.Points[0])
	assert.Equal(t, []float64{1, 0.5, 1}, pq.Points[3])
	var sum float64
	for _, w := range pq.Weights {
		sum += w
	}
	assert.InDelta(t, 0.25, sum, 1.e-15)

	_, err = ProjectToSubface(2, q, 0, 0)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = ProjectToFace(1, quadrature.Midpoint(), 0)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
}
