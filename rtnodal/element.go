package rtnodal

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"go.uber.org/zap"

	"github.com/notargets/hdivfe/fetools"
	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/polynomials"
	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

// Family tags the element kinds this package can reconcile with
type Family uint8

const (
	FamilyOther Family = iota
	FamilyRaviartThomasNodal
	FamilyNothing
)

func (f Family) String() string {
	switch f {
	case FamilyRaviartThomasNodal:
		return "RaviartThomasNodal"
	case FamilyNothing:
		return "Nothing"
	default:
		return "Other"
	}
}

// FiniteElement is the view of a neighboring element used for hp
// reconciliation
type FiniteElement interface {
	Family() Family
	Dim() int
	NDofsPerFace() int
}

// Nothing is an element without degrees of freedom. A dominating Nothing
// takes precedence at interfaces, otherwise it imposes no constraint.
type Nothing struct {
	dim        int
	dominating bool
}

func NewNothing(dim int, dominating bool) *Nothing {
	return &Nothing{dim: dim, dominating: dominating}
}

func (n *Nothing) Family() Family       { return FamilyNothing }
func (n *Nothing) Dim() int             { return n.dim }
func (n *Nothing) NDofsPerFace() int    { return 0 }
func (n *Nothing) IsDominating() bool   { return n.dominating }
func (n *Nothing) Name() string         { return fmt.Sprintf("Nothing<%d>", n.dim) }
func (n *Nothing) NDofsPerCell() int    { return 0 }
func (n *Nothing) DofsPerObject() []int { return make([]int, n.dim+1) }

// Element is the H(div) conforming nodal Raviart-Thomas element on the unit
// hypercube
type Element struct {
	dim, degree  int
	basis        *RaviartThomasBasis
	orientation  *FaceOrientationTable
	dpo          []int
	nDofsPerFace int
	nDofsPerCell int
	// Support points on face 0 in face coordinates, shared by all faces
	faceSupport          quadrature.Rule
	interfaceConstraints utils.Matrix
	refinement           *refinementCache
	solver               fetools.EmbeddingSolver
	logger               *zap.Logger
}

type Option func(el *Element)

func WithLogger(logger *zap.Logger) Option {
	return func(el *Element) { el.logger = logger }
}

// WithSolver replaces the embedding and projection solver used for the
// refinement matrices
func WithSolver(solver fetools.EmbeddingSolver) Option {
	return func(el *Element) { el.solver = solver }
}

func NewElement(dim, degree int, opts ...Option) (el *Element, err error) {
	if err = validateDimDegree(dim, degree); err != nil {
		return
	}
	el = &Element{
		dim:          dim,
		degree:       degree,
		dpo:          DofsPerObject(dim, degree),
		nDofsPerFace: NDofsPerFace(dim, degree),
		nDofsPerCell: NDofsPerCell(dim, degree),
		solver:       fetools.DefaultSolver{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(el)
	}
	if el.basis, err = NewRaviartThomasBasis(dim, degree); err != nil {
		return
	}
	if el.orientation, err = NewFaceOrientationTable(dim, degree); err != nil {
		return
	}
	if el.faceSupport, err = faceSupportRule(dim, degree); err != nil {
		return
	}
	if el.interfaceConstraints, err = el.computeInterfaceConstraints(); err != nil {
		return
	}
	el.refinement = newRefinementCache(el, el.solver, el.logger)
	return
}

func faceSupportRule(dim, degree int) (q quadrature.Rule, err error) {
	var r quadrature.Rule
	if degree == 0 {
		r, err = quadrature.Gauss(1)
	} else {
		r, err = quadrature.GaussLobatto(degree + 1)
	}
	if err != nil {
		return
	}
	return quadrature.Tensor(r, dim-1)
}

func (el *Element) Name() string {
	return fmt.Sprintf("RaviartThomasNodal<%d>(%d)", el.dim, el.degree)
}

func (el *Element) Family() Family { return FamilyRaviartThomasNodal }

func (el *Element) Dim() int { return el.dim }

// Degree is the degree passed to the constructor
func (el *Element) Degree() int { return el.degree }

// MaxDegree is the highest polynomial degree in the space, Degree()+1
func (el *Element) MaxDegree() int { return el.degree + 1 }

func (el *Element) DofsPerObject() []int { return append([]int{}, el.dpo...) }

func (el *Element) NDofsPerFace() int { return el.nDofsPerFace }

func (el *Element) NDofsPerCell() int { return el.nDofsPerCell }

func (el *Element) NDofsPerLine() int { return el.dpo[1] }

func (el *Element) NDofsPerQuad() int { return el.dpo[2] }

func (el *Element) Basis() *RaviartThomasBasis { return el.basis }

func (el *Element) Ordering() *DofOrderingTable { return el.basis.Ordering() }

func (el *Element) FaceOrientation() *FaceOrientationTable { return el.orientation }

// ShapeValues evaluates every shape function at p, result is [NDofsPerCell][dim]
func (el *Element) ShapeValues(p []float64) (vals [][]float64, err error) {
	out := polynomials.NewOutputs(el.nDofsPerCell, el.dim, 1, 0)
	if err = el.basis.Evaluate(p, out); err != nil {
		return
	}
	vals = out[0]
	return
}

func (el *Element) validateShape(i, component int) error {
	if i < 0 || i >= el.nDofsPerCell {
		return utils.Preconditionf("shape function %d not in [0,%d)", i, el.nDofsPerCell)
	}
	if component < 0 || component >= el.dim {
		return utils.Preconditionf("component %d not in [0,%d)", component, el.dim)
	}
	return nil
}

func (el *Element) ShapeValueComponent(i int, p []float64, component int) (val float64, err error) {
	var vals [][]float64
	if err = el.validateShape(i, component); err != nil {
		return
	}
	if vals, err = el.ShapeValues(p); err != nil {
		return
	}
	val = vals[i][component]
	return
}

// ShapeGradComponent is the gradient of one component of shape function i
func (el *Element) ShapeGradComponent(i int, p []float64, component int) (grad []float64, err error) {
	if err = el.validateShape(i, component); err != nil {
		return
	}
	out := polynomials.NewOutputs(el.nDofsPerCell, el.dim, 1, 1)
	if err = el.basis.Evaluate(p, out); err != nil {
		return
	}
	grad = append([]float64{}, out[1][i][component*el.dim:(component+1)*el.dim]...)
	return
}

// GeneralizedSupportPoints are the points defining the dofs in hierarchic
// order, dof i evaluates component SupportComponent(i) there
func (el *Element) GeneralizedSupportPoints() [][]float64 { return el.basis.SupportPoints() }

func (el *Element) SupportComponent(i int) int { return el.basis.SupportComponent(i) }

// GeneralizedFaceSupportPoints are the face dof points in face coordinates
func (el *Element) GeneralizedFaceSupportPoints() quadrature.Rule {
	q := quadrature.Rule{
		Points:  make([][]float64, el.faceSupport.Size()),
		Weights: append([]float64{}, el.faceSupport.Weights...),
	}
	for i, p := range el.faceSupport.Points {
		q.Points[i] = append([]float64{}, p...)
	}
	return q
}

func (el *Element) FaceToCellIndex(faceDof, face int) (int, error) {
	if err := geometry.ValidateFace(el.dim, face); err != nil {
		return 0, err
	}
	if faceDof < 0 || faceDof >= el.nDofsPerFace {
		return 0, utils.Preconditionf("face dof %d not in [0,%d)", faceDof, el.nDofsPerFace)
	}
	return face*el.nDofsPerFace + faceDof, nil
}

// FaceToCellIndexOriented translates a face dof as seen from a face with
// non-standard orientation into the cell dof, with the sign to apply
func (el *Element) FaceToCellIndexOriented(faceDof, face int, orientation, flip, rotation bool) (index, sign int, err error) {
	var local int
	if local, sign, err = el.orientation.Adjust(faceDof, orientation, flip, rotation); err != nil {
		return
	}
	index, err = el.FaceToCellIndex(local, face)
	return
}

// HasSupportOnFace is false only where the shape function is known to vanish:
// face dofs vanish on the opposite face
func (el *Element) HasSupportOnFace(shape, face int) (bool, error) {
	if shape < 0 || shape >= el.nDofsPerCell {
		return false, utils.Preconditionf("shape function %d not in [0,%d)", shape, el.nDofsPerCell)
	}
	if err := geometry.ValidateFace(el.dim, face); err != nil {
		return false, err
	}
	supportFace := shape / el.nDofsPerFace
	if supportFace < geometry.FacesPerCell(el.dim) {
		return face != geometry.OppositeFace(supportFace), nil
	}
	return true, nil
}

// ConvertGeneralizedSupportPointValuesToDofValues picks from each vector
// sampled at the generalized support points the component its dof measures:
// the normal component on faces, the chunk component in the interior
func (el *Element) ConvertGeneralizedSupportPointValuesToDofValues(values [][]float64) (dofs []float64, err error) {
	if len(values) != el.nDofsPerCell {
		err = utils.DimensionMismatch(len(values), el.nDofsPerCell)
		return
	}
	dofs = make([]float64, el.nDofsPerCell)
	var (
		fbase = 0
	)
	for f := 0; f < geometry.FacesPerCell(el.dim); f++ {
		comp := geometry.UnitNormalDirection(f)
		for i := 0; i < el.nDofsPerFace; i++ {
			if len(values[fbase+i]) != el.dim {
				err = utils.DimensionMismatch(len(values[fbase+i]), el.dim)
				return
			}
			dofs[fbase+i] = values[fbase+i][comp]
		}
		fbase += el.nDofsPerFace
	}
	istep := (el.nDofsPerCell - fbase) / el.dim
	for comp := 0; fbase < el.nDofsPerCell; comp++ {
		for i := 0; i < istep; i++ {
			if len(values[fbase+i]) != el.dim {
				err = utils.DimensionMismatch(len(values[fbase+i]), el.dim)
				return
			}
			dofs[fbase+i] = values[fbase+i][comp]
		}
		fbase += istep
	}
	return
}

// InterfaceConstraints stacks the subface embeddings of face 0, one block of
// NDofsPerFace rows per isotropic face child
func (el *Element) InterfaceConstraints() utils.Matrix { return el.interfaceConstraints }

// SparseInterfaceConstraints drops the entries of InterfaceConstraints that
// snapped to zero
func (el *Element) SparseInterfaceConstraints() *sparse.CSR {
	return utils.NewSparseFromDense(el.interfaceConstraints, 0)
}

func (el *Element) computeInterfaceConstraints() (C utils.Matrix, err error) {
	var (
		nChildren = geometry.MaxChildrenPerFace(el.dim)
		nf        = el.nDofsPerFace
	)
	C = utils.NewMatrix(nChildren*nf, nf)
	for sub := 0; sub < nChildren; sub++ {
		var E utils.Matrix
		if E, err = el.SubfaceInterpolationMatrix(el, sub, 0); err != nil {
			return
		}
		for i := 0; i < nf; i++ {
			for j := 0; j < nf; j++ {
				C.Set(sub*nf+i, j, E.At(i, j))
			}
		}
	}
	C.SetReadOnly("InterfaceConstraints")
	return
}
