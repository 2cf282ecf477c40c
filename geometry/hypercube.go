// Package geometry holds the reference hypercube [0,1]^dim data used by the
// element code: face numbering, refinement cases with their children, and the
// projection of lower dimensional quadrature rules onto faces and subfaces.
//
// Face f fixes axis f/2 at the value f%2. The remaining axes, taken in
// increasing order, carry the face coordinates with the first running fastest.
package geometry

import (
	"math/bits"

	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

func FacesPerCell(dim int) int { return 2 * dim }

func UnitNormalDirection(face int) int { return face / 2 }

func OppositeFace(face int) int { return face ^ 1 }

func MaxChildrenPerFace(dim int) int { return 1 << (dim - 1) }

func MaxChildrenPerCell(dim int) int { return 1 << dim }

func ValidateDim(dim int) error {
	if dim < 1 || dim > 3 {
		return utils.Preconditionf("dimension %d not in [1,3]", dim)
	}
	return nil
}

func ValidateFace(dim, face int) error {
	if face < 0 || face >= FacesPerCell(dim) {
		return utils.Preconditionf("face %d not in [0,%d)", face, FacesPerCell(dim))
	}
	return nil
}

// FaceAxes lists the cell axes spanned by the face, in face coordinate order
func FaceAxes(dim, face int) (axes []int) {
	normal := UnitNormalDirection(face)
	for a := 0; a < dim; a++ {
		if a != normal {
			axes = append(axes, a)
		}
	}
	return
}

// FacePoint maps face coordinates onto the face of the reference cell
func FacePoint(dim, face int, t []float64) (p []float64) {
	p = make([]float64, dim)
	p[UnitNormalDirection(face)] = float64(face % 2)
	for i, a := range FaceAxes(dim, face) {
		p[a] = t[i]
	}
	return
}

// ProjectToFace maps a (dim-1) dimensional rule onto a face of the cell. The
// weights are passed through unchanged.
func ProjectToFace(dim int, q quadrature.Rule, face int) (pq quadrature.Rule, err error) {
	return ProjectToSubface(dim, q, face, -1)
}

// ProjectToSubface maps a (dim-1) dimensional rule onto one isotropic child of
// a face. Bit k of subface selects the upper half of face axis k. A negative
// subface selects the whole face.
func ProjectToSubface(dim int, q quadrature.Rule, face, subface int) (pq quadrature.Rule, err error) {
	if err = ValidateDim(dim); err != nil {
		return
	}
	if dim < 2 {
		err = utils.Preconditionf("face projection impossible in dimension %d", dim)
		return
	}
	if err = ValidateFace(dim, face); err != nil {
		return
	}
	if subface >= MaxChildrenPerFace(dim) {
		err = utils.Preconditionf("subface %d not in [0,%d)", subface,
			MaxChildrenPerFace(dim))
		return
	}
	if q.Dim() != dim-1 {
		err = utils.Preconditionf("face rule has dimension %d, want %d",
			q.Dim(), dim-1)
		return
	}
	pq = quadrature.Rule{
		Points:  make([][]float64, q.Size()),
		Weights: make([]float64, q.Size()),
	}
	for i, t := range q.Points {
		tt := make([]float64, len(t))
		copy(tt, t)
		w := q.Weights[i]
		if subface >= 0 {
			for k := range tt {
				tt[k] = 0.5 * (tt[k] + float64((subface>>k)&1))
				w *= 0.5
			}
		}
		pq.Points[i] = FacePoint(dim, face, tt)
		pq.Weights[i] = w
	}
	return
}

// RefinementCase is a bit mask, bit a set means the cell is cut in half
// along axis a
type RefinementCase uint8

const NoRefinement RefinementCase = 0

func IsotropicRefinement(dim int) RefinementCase {
	return RefinementCase(1<<dim - 1)
}

func (rc RefinementCase) NChildren() int {
	return 1 << bits.OnesCount8(uint8(rc))
}

func (rc RefinementCase) IsCut(axis int) bool {
	return rc&(1<<axis) != 0
}

// CutAxes lists the axes cut by the refinement, child index bit k refers to
// the k-th cut axis
func (rc RefinementCase) CutAxes(dim int) (axes []int) {
	for a := 0; a < dim; a++ {
		if rc.IsCut(a) {
			axes = append(axes, a)
		}
	}
	return
}

// Validate checks that rc names an actual refinement in dimension dim
func (rc RefinementCase) Validate(dim int) error {
	if rc == NoRefinement {
		return utils.Preconditionf("refinement matrices are only available for refined cells")
	}
	if rc > IsotropicRefinement(dim) {
		return utils.Preconditionf("refinement case %d invalid in dimension %d",
			rc, dim)
	}
	return nil
}

func (rc RefinementCase) ValidateChild(dim, child int) error {
	if err := rc.Validate(dim); err != nil {
		return err
	}
	if child < 0 || child >= rc.NChildren() {
		return utils.Preconditionf("child %d not in [0,%d)", child, rc.NChildren())
	}
	return nil
}

// Scale is the length of a child along axis, relative to the parent
func (rc RefinementCase) Scale(axis int) float64 {
	if rc.IsCut(axis) {
		return 0.5
	}
	return 1.
}

// ChildToParent maps a point of the child's reference cell into the parent
func (rc RefinementCase) ChildToParent(dim, child int, x []float64) (p []float64) {
	var (
		k int
	)
	p = make([]float64, dim)
	for a := 0; a < dim; a++ {
		if rc.IsCut(a) {
			p[a] = 0.5 * (x[a] + float64((child>>k)&1))
			k++
		} else {
			p[a] = x[a]
		}
	}
	return
}

func (rc RefinementCase) String() string {
	if rc == NoRefinement {
		return "none"
	}
	s := "cut_"
	for a, c := range "xyz" {
		if rc.IsCut(a) {
			s += string(c)
		}
	}
	return s
}
