package rtnodal

import (
	"github.com/notargets/hdivfe/polynomials"
	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

// RaviartThomasBasis is the vector valued nodal Raviart-Thomas basis on the
// unit hypercube. Component d of every function is a tensor product Lagrange
// polynomial of degree k+1 in x_d and degree k in the other variables, the
// other components are zero.
//
// Only the space of component 0 is stored. Component d is obtained by
// evaluating that space at the point with its coordinates rotated by d, then
// rotating the derivative directions back.
type RaviartThomasBasis struct {
	dim, degree   int
	space         *polynomials.AnisotropicSpace
	ordering      *DofOrderingTable
	supportPoints [][]float64
	// unrotate[d][k][f] is the flattened derivative index in cell axes of the
	// rotated derivative index f of order k
	unrotate [][][]int
}

func NewRaviartThomasBasis(dim, degree int) (b *RaviartThomasBasis, err error) {
	if err = validateDimDegree(dim, degree); err != nil {
		return
	}
	b = &RaviartThomasBasis{
		dim:    dim,
		degree: degree,
	}
	if b.space, err = polynomials.NewRaviartThomasSpace(dim, degree); err != nil {
		return
	}
	if b.ordering, err = NewDofOrderingTable(dim, degree); err != nil {
		return
	}
	b.unrotate = make([][][]int, dim)
	for d := 0; d < dim; d++ {
		b.unrotate[d] = make([][]int, polynomials.MaxDerivativeOrder+1)
		for k := range b.unrotate[d] {
			nf := utils.IPow(dim, k)
			b.unrotate[d][k] = make([]int, nf)
			for f := range b.unrotate[d][k] {
				b.unrotate[d][k][f] = unrotateDerivativeIndex(f, d, k, dim)
			}
		}
	}
	if b.supportPoints, err = b.computeSupportPoints(); err != nil {
		return
	}
	return
}

// NPolynomials is dim (k+2) (k+1)^(dim-1)
func NPolynomials(dim, degree int) int { return NDofsPerCell(dim, degree) }

func (b *RaviartThomasBasis) N() int { return b.dim * b.space.N() }

func (b *RaviartThomasBasis) Dim() int { return b.dim }

func (b *RaviartThomasBasis) Degree() int { return b.degree }

func (b *RaviartThomasBasis) Ordering() *DofOrderingTable { return b.ordering }

func (b *RaviartThomasBasis) Space() *polynomials.AnisotropicSpace { return b.space }

// rotatePoint returns p with p[c] = x[(c+d) % dim]
func rotatePoint(x []float64, d int) (p []float64) {
	dim := len(x)
	p = make([]float64, dim)
	for c := range p {
		p[c] = x[(c+d)%dim]
	}
	return
}

// unrotateDerivativeIndex maps each of the k row-major derivative directions
// c of f to (c+d) % dim
func unrotateDerivativeIndex(f, d, k, dim int) (g int) {
	var (
		digits = make([]int, k)
	)
	for m := k - 1; m >= 0; m-- {
		digits[m] = f % dim
		f /= dim
	}
	for _, c := range digits {
		g = g*dim + (c+d)%dim
	}
	return
}

// evaluateRotated evaluates the stored space for component d
func (b *RaviartThomasBasis) evaluateRotated(d int, x []float64, sub polynomials.Outputs) error {
	return b.space.Evaluate(rotatePoint(x, d), sub)
}

// scatterUnrotated writes the component d results in hierarchic order with
// derivative directions in cell axes
func (b *RaviartThomasBasis) scatterUnrotated(d int, sub, out polynomials.Outputs) {
	var (
		nSub = b.space.N()
		l2h  = b.ordering.LexicographicToHierarchic
		ra   = b.ordering.RenumberAniso[d]
	)
	for k := range out {
		if len(out[k]) == 0 {
			continue
		}
		nf := utils.IPow(b.dim, k)
		unrot := b.unrotate[d][k]
		for i := 0; i < nSub; i++ {
			dst := out[k][l2h[i+d*nSub]]
			src := sub[k][ra[i]]
			for f, val := range src {
				dst[d*nf+unrot[f]] = val
			}
		}
	}
}

// Evaluate computes values and derivatives up to order 4 of every basis
// function at x, in hierarchic order. out[k][i] is the rank k+1 tensor of
// function i, flattened as [component][direction 1]...[direction k]. Each
// order of out must be empty or hold exactly N() entries.
func (b *RaviartThomasBasis) Evaluate(x []float64, out polynomials.Outputs) (err error) {
	if len(x) != b.dim {
		return utils.DimensionMismatch(len(x), b.dim)
	}
	if err = out.Validate(b.N(), b.dim, 1); err != nil {
		return
	}
	var orders []int
	for k := range out {
		if len(out[k]) == 0 {
			continue
		}
		orders = append(orders, k)
		for _, entry := range out[k] {
			for f := range entry {
				entry[f] = 0
			}
		}
	}
	if len(orders) == 0 {
		return
	}
	sub := polynomials.NewOutputs(b.space.N(), b.dim, 0, orders...)
	for d := 0; d < b.dim; d++ {
		if err = b.evaluateRotated(d, x, sub); err != nil {
			return
		}
		b.scatterUnrotated(d, sub, out)
	}
	return
}

// SupportPoints returns the generalized support points in hierarchic order.
// Point i carries the dof of component SupportComponent(i) only.
func (b *RaviartThomasBasis) SupportPoints() (pts [][]float64) {
	pts = make([][]float64, len(b.supportPoints))
	for i, p := range b.supportPoints {
		pts[i] = append([]float64{}, p...)
	}
	return
}

func (b *RaviartThomasBasis) SupportComponent(i int) int {
	return b.ordering.HierarchicComponent(i)
}

func (b *RaviartThomasBasis) computeSupportPoints() (pts [][]float64, err error) {
	var (
		quad  quadrature.Rule
		nSub  = b.space.N()
		l2h   = b.ordering.LexicographicToHierarchic
		rules = make([]quadrature.Rule, b.dim)
	)
	// Lobatto points along every axis, the midpoint where the space is
	// constant
	for a, n := range b.space.Extents() {
		if n == 1 {
			rules[a] = quadrature.Midpoint()
		} else if rules[a], err = quadrature.GaussLobatto(n); err != nil {
			return
		}
	}
	if quad, err = quadrature.Anisotropic(rules...); err != nil {
		return
	}
	pts = make([][]float64, b.N())
	for d := 0; d < b.dim; d++ {
		for i := 0; i < nSub; i++ {
			q := quad.Points[b.ordering.RenumberAniso[d][i]]
			// undo the rotation of the evaluation point
			x := make([]float64, b.dim)
			for c := range q {
				x[(c+d)%b.dim] = q[c]
			}
			pts[l2h[i+d*nSub]] = x
		}
	}
	return
}
