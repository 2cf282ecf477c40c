package rtnodal

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/notargets/hdivfe/fetools"
	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/utils"
)

// refinementCache memoizes the prolongation and restriction matrices per
// refinement case. A batch holds one matrix per child and is published once,
// after which it is never written. Readers that find a batch never lock.
type refinementCache struct {
	fe     fetools.Element
	solver fetools.EmbeddingSolver
	logger *zap.Logger
	mu     sync.Mutex
	// indexed by refinement case - 1
	prolongation []atomic.Pointer[[]utils.Matrix]
	restriction  []atomic.Pointer[[]utils.Matrix]
}

func newRefinementCache(fe fetools.Element, solver fetools.EmbeddingSolver, logger *zap.Logger) *refinementCache {
	// one slot per nonzero refinement case
	nCases := geometry.MaxChildrenPerCell(fe.Dim()) - 1
	return &refinementCache{
		fe:           fe,
		solver:       solver,
		logger:       logger,
		prolongation: make([]atomic.Pointer[[]utils.Matrix], nCases),
		restriction:  make([]atomic.Pointer[[]utils.Matrix], nCases),
	}
}

type batchKind uint8

const (
	prolongationBatch batchKind = iota
	restrictionBatch
)

func (k batchKind) String() string {
	if k == prolongationBatch {
		return "prolongation"
	}
	return "restriction"
}

func (rc *refinementCache) slot(kind batchKind, ref geometry.RefinementCase) *atomic.Pointer[[]utils.Matrix] {
	if kind == prolongationBatch {
		return &rc.prolongation[ref-1]
	}
	return &rc.restriction[ref-1]
}

func (rc *refinementCache) get(kind batchKind, child int, ref geometry.RefinementCase) (m utils.Matrix, err error) {
	if err = ref.ValidateChild(rc.fe.Dim(), child); err != nil {
		return
	}
	slot := rc.slot(kind, ref)
	if batch := slot.Load(); batch != nil {
		return (*batch)[child], nil
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	// another caller may have finished while we waited
	if batch := slot.Load(); batch != nil {
		return (*batch)[child], nil
	}
	if err = rc.compute(kind, ref); err != nil {
		return
	}
	return (*slot.Load())[child], nil
}

// compute fills the batch of kind for ref. Anisotropic cases share one solve
// setup between both kinds, so both are computed together.
func (rc *refinementCache) compute(kind batchKind, ref geometry.RefinementCase) (err error) {
	var (
		start = time.Now()
		kinds = []batchKind{kind}
	)
	if ref != geometry.IsotropicRefinement(rc.fe.Dim()) {
		kinds = []batchKind{prolongationBatch, restrictionBatch}
	}
	for _, k := range kinds {
		if rc.slot(k, ref).Load() != nil {
			continue
		}
		var batch []utils.Matrix
		switch k {
		case prolongationBatch:
			batch, err = rc.solver.EmbeddingMatrices(rc.fe, ref)
		default:
			batch, err = rc.solver.ProjectionMatrices(rc.fe, ref)
		}
		if err != nil {
			return
		}
		if len(batch) != ref.NChildren() {
			return utils.Internalf("%s solver returned %d matrices for %d children",
				k, len(batch), ref.NChildren())
		}
		n := rc.fe.NDofsPerCell()
		for c := range batch {
			if nr, nc := batch[c].Dims(); nr != n || nc != n {
				return utils.Internalf("%s matrix for child %d is %dx%d, want %dx%d",
					k, c, nr, nc, n, n)
			}
			batch[c].SetReadOnly(k.String())
		}
		rc.slot(k, ref).Store(&batch)
	}
	rc.logger.Debug("refinement matrices computed",
		zap.Int("dim", rc.fe.Dim()),
		zap.Int("maxDegree", rc.fe.MaxDegree()),
		zap.Stringer("case", ref),
		zap.Stringers("kinds", kinds),
		zap.Duration("elapsed", time.Since(start)))
	return
}

// ProlongationMatrix maps the dofs of the parent to the dofs of child under
// the refinement case. The returned matrix is shared and read only.
func (el *Element) ProlongationMatrix(child int, ref geometry.RefinementCase) (utils.Matrix, error) {
	return el.refinement.get(prolongationBatch, child, ref)
}

// RestrictionMatrix maps the dofs of child back to the parent, summed over
// all children it reproduces the parent dofs
func (el *Element) RestrictionMatrix(child int, ref geometry.RefinementCase) (utils.Matrix, error) {
	return el.refinement.get(restrictionBatch, child, ref)
}
