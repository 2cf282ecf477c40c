package rtnodal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hdivfe/utils"
)

// foreignElement stands in for an element family this package does not know
type foreignElement struct {
	family Family
	dim    int
}

func (fe foreignElement) Family() Family    { return fe.family }
func (fe foreignElement) Dim() int          { return fe.dim }
func (fe foreignElement) NDofsPerFace() int { return 1 }

func newElements(t *testing.T, dim int, degrees ...int) (els []*Element) {
	for _, degree := range degrees {
		el, err := NewElement(dim, degree)
		require.NoError(t, err)
		els = append(els, el)
	}
	return
}

func TestCompareForDomination(t *testing.T) {
	els := newElements(t, 2, 1, 2)
	d, err := els[0].CompareForDomination(els[1], 0)
	require.NoError(t, err)
	assert.Equal(t, ThisElementDominates, d)
	d, err = els[1].CompareForDomination(els[0], 1)
	require.NoError(t, err)
	assert.Equal(t, OtherElementDominates, d)
	d, err = els[1].CompareForDomination(els[1], 2)
	require.NoError(t, err)
	assert.Equal(t, EitherElementCanDominate, d)

	d, err = els[0].CompareForDomination(NewNothing(2, true), 0)
	require.NoError(t, err)
	assert.Equal(t, OtherElementDominates, d)
	d, err = els[0].CompareForDomination(NewNothing(2, false), 0)
	require.NoError(t, err)
	assert.Equal(t, NoRequirements, d)

	_, err = els[0].CompareForDomination(els[1], 3)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	d, err = els[0].CompareForDomination(foreignElement{dim: 2}, 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
	assert.Equal(t, NeitherElementDominates, d)
	// A family tag that does not match the concrete type is not trusted
	_, err = els[0].CompareForDomination(foreignElement{family: FamilyRaviartThomasNodal, dim: 2}, 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
	_, err = els[0].CompareForDomination(newElements(t, 3, 1)[0], 0)
	assert.ErrorIs(t, err, utils.ErrDimensionMismatch)
	assert.Equal(t, "either_element_can_dominate", EitherElementCanDominate.String())
}

func TestNothing(t *testing.T) {
	n := NewNothing(3, true)
	assert.Equal(t, "Nothing<3>", n.Name())
	assert.Equal(t, FamilyNothing, n.Family())
	assert.Equal(t, "Nothing", n.Family().String())
	assert.Equal(t, 0, n.NDofsPerCell())
	assert.Equal(t, []int{0, 0, 0, 0}, n.DofsPerObject())
	assert.True(t, n.IsDominating())
}

func TestHpVertexDofIdentities(t *testing.T) {
	els := newElements(t, 3, 0, 2)
	ids, err := els[0].HpVertexDofIdentities(els[1])
	require.NoError(t, err)
	assert.Empty(t, ids)
	ids, err = els[0].HpVertexDofIdentities(NewNothing(3, false))
	require.NoError(t, err)
	assert.Empty(t, ids)
	_, err = els[0].HpVertexDofIdentities(foreignElement{dim: 3})
	assert.ErrorIs(t, err, utils.ErrNotImplemented)
}

func TestHpLineDofIdentities(t *testing.T) {
	els := newElements(t, 2, 0, 1, 2)
	testCases := []struct {
		this, other int
		want        []DofIdentity
	}{
		{0, 0, []DofIdentity{{0, 0}}},
		{1, 1, []DofIdentity{{0, 0}, {1, 1}}},
		{1, 2, []DofIdentity{}},
		{0, 2, []DofIdentity{{0, 1}}},
		{2, 0, []DofIdentity{{1, 0}}},
		{0, 1, []DofIdentity{}},
	}
	for _, tc := range testCases {
		ids, err := els[tc.this].HpLineDofIdentities(els[tc.other])
		require.NoError(t, err)
		assert.Equalf(t, tc.want, ids, "degrees %d, %d", tc.this, tc.other)
	}
	ids, err := els[1].HpLineDofIdentities(NewNothing(2, true))
	require.NoError(t, err)
	assert.Empty(t, ids)
	_, err = els[1].HpLineDofIdentities(foreignElement{dim: 2})
	assert.ErrorIs(t, err, utils.ErrNotImplemented)

	// Faces are not lines in 3D
	els3 := newElements(t, 3, 1)
	ids, err = els3[0].HpLineDofIdentities(els3[0])
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestHpQuadDofIdentities(t *testing.T) {
	els := newElements(t, 3, 0, 1, 2)
	testCases := []struct {
		this, other int
		want        []DofIdentity
	}{
		{0, 0, []DofIdentity{{0, 0}}},
		{1, 1, []DofIdentity{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{0, 2, []DofIdentity{{0, 4}}},
		{2, 0, []DofIdentity{{4, 0}}},
		{1, 2, []DofIdentity{}},
	}
	for _, tc := range testCases {
		ids, err := els[tc.this].HpQuadDofIdentities(els[tc.other], 0)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, ids, "degrees %d, %d", tc.this, tc.other)
	}
	_, err := els[0].HpQuadDofIdentities(els[1], 6)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = els[0].HpQuadDofIdentities(foreignElement{dim: 3}, 0)
	assert.ErrorIs(t, err, utils.ErrNotImplemented)

	els2 := newElements(t, 2, 1)
	ids, err := els2[0].HpQuadDofIdentities(els2[0], 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
