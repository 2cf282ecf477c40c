package rtnodal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/hdivfe/fetools"
	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingSolver records how often the wrapped solver runs
type countingSolver struct {
	fetools.DefaultSolver
	embeddings, projections atomic.Int32
	fail                    error
}

func (cs *countingSolver) EmbeddingMatrices(fe fetools.Element, rc geometry.RefinementCase) ([]utils.Matrix, error) {
	cs.embeddings.Inc()
	if cs.fail != nil {
		return nil, cs.fail
	}
	return cs.DefaultSolver.EmbeddingMatrices(fe, rc)
}

func (cs *countingSolver) ProjectionMatrices(fe fetools.Element, rc geometry.RefinementCase) ([]utils.Matrix, error) {
	cs.projections.Inc()
	if cs.fail != nil {
		return nil, cs.fail
	}
	return cs.DefaultSolver.ProjectionMatrices(fe, rc)
}

func TestProlongationIsComputedOnce(t *testing.T) {
	cs := &countingSolver{}
	el, err := NewElement(2, 1, WithSolver(cs))
	require.NoError(t, err)
	iso := geometry.IsotropicRefinement(2)
	P1, err := el.ProlongationMatrix(2, iso)
	require.NoError(t, err)
	P2, err := el.ProlongationMatrix(2, iso)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.embeddings.Load())
	assert.Equal(t, int32(0), cs.projections.Load())
	assert.Equal(t, 0., P1.MaxAbsDiff(P2))
	assert.Same(t, P1.M, P2.M)
	assert.True(t, P1.IsReadOnly())
	assert.Panics(t, func() { P1.Set(0, 0, 1) })
	// Other children come from the same batch
	_, err = el.ProlongationMatrix(0, iso)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.embeddings.Load())
	// Restriction of the isotropic case is a separate batch
	_, err = el.RestrictionMatrix(3, iso)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.embeddings.Load())
	assert.Equal(t, int32(1), cs.projections.Load())
}

func TestProlongationConcurrentCallers(t *testing.T) {
	cs := &countingSolver{}
	el, err := NewElement(3, 0, WithSolver(cs))
	require.NoError(t, err)
	var (
		iso     = geometry.IsotropicRefinement(3)
		g       errgroup.Group
		results = make([]utils.Matrix, 32)
	)
	for i := range results {
		i := i
		g.Go(func() (err error) {
			results[i], err = el.ProlongationMatrix(i%iso.NChildren(), iso)
			return
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), cs.embeddings.Load())
	for i := range results {
		assert.Same(t, results[i%iso.NChildren()].M, results[i].M)
	}
}

func TestAnisotropicCaseComputesBothKinds(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cs := &countingSolver{}
	el, err := NewElement(2, 1, WithSolver(cs), WithLogger(zap.New(core)))
	require.NoError(t, err)
	cutX := geometry.RefinementCase(1)
	_, err = el.RestrictionMatrix(1, cutX)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.embeddings.Load())
	assert.Equal(t, int32(1), cs.projections.Load())
	_, err = el.ProlongationMatrix(0, cutX)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.embeddings.Load())
	assert.Equal(t, int32(1), cs.projections.Load())
	assert.Equal(t, 1, logs.FilterMessage("refinement matrices computed").Len())
}

func TestRefinementPreconditions(t *testing.T) {
	el, err := NewElement(2, 0)
	require.NoError(t, err)
	_, err = el.ProlongationMatrix(0, geometry.NoRefinement)
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = el.RestrictionMatrix(0, geometry.RefinementCase(4))
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = el.ProlongationMatrix(2, geometry.RefinementCase(2))
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
	_, err = el.ProlongationMatrix(-1, geometry.IsotropicRefinement(2))
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
}

func TestRefinementSolverFailureIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	cs := &countingSolver{fail: boom}
	el, err := NewElement(2, 0, WithSolver(cs))
	require.NoError(t, err)
	_, err = el.ProlongationMatrix(0, geometry.IsotropicRefinement(2))
	assert.ErrorIs(t, err, boom)
	cs.fail = nil
	_, err = el.ProlongationMatrix(0, geometry.IsotropicRefinement(2))
	assert.NoError(t, err)
	assert.Equal(t, int32(2), cs.embeddings.Load())
}

func TestProlongationOfConstantField(t *testing.T) {
	// The flux through each child face is half the parent's
	el, err := NewElement(2, 1)
	require.NoError(t, err)
	var values [][]float64
	for range el.GeneralizedSupportPoints() {
		values = append(values, []float64{1, 0})
	}
	coarse, err := el.ConvertGeneralizedSupportPointValuesToDofValues(values)
	require.NoError(t, err)
	iso := geometry.IsotropicRefinement(2)
	for child := 0; child < iso.NChildren(); child++ {
		P, err := el.ProlongationMatrix(child, iso)
		require.NoError(t, err)
		for i := 0; i < el.NDofsPerCell(); i++ {
			var fine float64
			for j, u := range coarse {
				fine += P.At(i, j) * u
			}
			want := 0.
			if el.SupportComponent(i) == 0 {
				want = 0.5
			}
			assert.InDelta(t, want, fine, 1.e-13)
		}
	}
}
