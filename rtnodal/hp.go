package rtnodal

import (
	"github.com/notargets/hdivfe/utils"
)

// Domination decides whose dofs are authoritative at an interface between
// two elements
type Domination uint8

const (
	ThisElementDominates Domination = iota
	OtherElementDominates
	NeitherElementDominates
	EitherElementCanDominate
	NoRequirements
)

func (d Domination) String() string {
	switch d {
	case ThisElementDominates:
		return "this_element_dominates"
	case OtherElementDominates:
		return "other_element_dominates"
	case NeitherElementDominates:
		return "neither_element_dominates"
	case EitherElementCanDominate:
		return "either_element_can_dominate"
	default:
		return "no_requirements"
	}
}

// DofIdentity pairs a dof of this element with the identical dof of the other
type DofIdentity struct {
	This, Other int
}

// counterpart is the other element resolved to one of the families this
// package knows
type counterpart struct {
	family  Family
	rt      *Element
	nothing *Nothing
}

func (el *Element) resolve(other FiniteElement) (cp counterpart, err error) {
	if other == nil {
		err = utils.Preconditionf("other element is nil")
		return
	}
	if other.Dim() != el.dim {
		err = utils.DimensionMismatch(other.Dim(), el.dim)
		return
	}
	cp.family = other.Family()
	var ok bool
	switch cp.family {
	case FamilyRaviartThomasNodal:
		cp.rt, ok = other.(*Element)
	case FamilyNothing:
		cp.nothing, ok = other.(*Nothing)
	}
	if !ok {
		err = utils.NotImplementedf("%s against %s family", el.Name(), cp.family)
	}
	return
}

// CompareForDomination favors the lower degree. codim selects the sub-object
// the comparison is made for and does not change the outcome.
func (el *Element) CompareForDomination(other FiniteElement, codim int) (d Domination, err error) {
	if codim < 0 || codim > el.dim {
		err = utils.Preconditionf("codim %d not in [0,%d]", codim, el.dim)
		return
	}
	var cp counterpart
	if cp, err = el.resolve(other); err != nil {
		d = NeitherElementDominates
		return
	}
	switch cp.family {
	case FamilyNothing:
		if cp.nothing.IsDominating() {
			return OtherElementDominates, nil
		}
		return NoRequirements, nil
	default:
		switch {
		case el.degree < cp.rt.degree:
			return ThisElementDominates, nil
		case el.degree == cp.rt.degree:
			return EitherElementCanDominate, nil
		default:
			return OtherElementDominates, nil
		}
	}
}

// HpVertexDofIdentities is always empty, there are no vertex dofs
func (el *Element) HpVertexDofIdentities(other FiniteElement) ([]DofIdentity, error) {
	if _, err := el.resolve(other); err != nil {
		return nil, err
	}
	return []DofIdentity{}, nil
}

// HpLineDofIdentities matches face dofs on the lines of 2D cells. The face
// points are Gauss-Lobatto points, so two sets share either every point or
// only the midpoint when both have an odd count.
func (el *Element) HpLineDofIdentities(other FiniteElement) (ids []DofIdentity, err error) {
	var cp counterpart
	if cp, err = el.resolve(other); err != nil {
		return
	}
	ids = []DofIdentity{}
	if cp.family == FamilyNothing || el.dim != 2 {
		return
	}
	ids = sharedPointIdentities(el.degree, cp.rt.degree, el.degree+1, func(p int) bool { return p%2 == 0 })
	return
}

// HpQuadDofIdentities is the 3D analogue on quad faces, counted in face dofs
func (el *Element) HpQuadDofIdentities(other FiniteElement, face int) (ids []DofIdentity, err error) {
	var cp counterpart
	if cp, err = el.resolve(other); err != nil {
		return
	}
	if face < 0 || face >= 2*el.dim {
		err = utils.Preconditionf("face %d not in [0,%d)", face, 2*el.dim)
		return
	}
	ids = []DofIdentity{}
	if cp.family == FamilyNothing || el.dim != 3 {
		return
	}
	p, q := el.nDofsPerFace, cp.rt.nDofsPerFace
	ids = sharedPointIdentities(p, q, p, func(n int) bool { return n%2 != 0 })
	return
}

func sharedPointIdentities(p, q, nEqual int, midpoint func(int) bool) (ids []DofIdentity) {
	ids = []DofIdentity{}
	switch {
	case p == q:
		for i := 0; i < nEqual; i++ {
			ids = append(ids, DofIdentity{This: i, Other: i})
		}
	case midpoint(p) && midpoint(q):
		ids = append(ids, DofIdentity{This: p / 2, Other: q / 2})
	}
	return
}
