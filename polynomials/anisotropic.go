package polynomials

import (
	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

// Outputs holds evaluation results by derivative order. Outputs[k][i] is the
// k-th derivative of function i, flattened row-major over the k derivative
// directions and prefixed by the value rank (0 for scalar, 1 for vector
// valued functions). An order with an empty slice is skipped.
type Outputs [MaxDerivativeOrder + 1][][]float64

// NewOutputs allocates n entries of width dim^(valueRank+k) for each
// requested derivative order k
func NewOutputs(n, dim, valueRank int, orders ...int) (o Outputs) {
	for _, k := range orders {
		width := utils.IPow(dim, valueRank+k)
		o[k] = make([][]float64, n)
		for i := range o[k] {
			o[k][i] = make([]float64, width)
		}
	}
	return
}

// MaxOrder is the highest requested derivative order, -1 if none
func (o Outputs) MaxOrder() (K int) {
	K = -1
	for k := range o {
		if len(o[k]) != 0 {
			K = k
		}
	}
	return
}

// Validate enforces the buffer contract: each order holds either nothing or
// exactly n entries of the given width
func (o Outputs) Validate(n, dim, valueRank int) error {
	for k := range o {
		if len(o[k]) == 0 {
			continue
		}
		if len(o[k]) != n {
			return utils.OptionalDimensionMismatch(len(o[k]), n)
		}
		width := utils.IPow(dim, valueRank+k)
		for _, entry := range o[k] {
			if len(entry) != width {
				return utils.DimensionMismatch(len(entry), width)
			}
		}
	}
	return nil
}

// AnisotropicSpace is the tensor product of one Lagrange basis per axis.
// Function indices run lexicographically with axis 0 fastest.
type AnisotropicSpace struct {
	dim     int
	bases   []*LagrangeBasis1D
	extents []int
	n       int
}

func NewAnisotropicSpace(bases ...*LagrangeBasis1D) (s *AnisotropicSpace, err error) {
	if len(bases) == 0 {
		err = utils.Preconditionf("anisotropic space needs at least one axis")
		return
	}
	s = &AnisotropicSpace{
		dim:     len(bases),
		bases:   bases,
		extents: make([]int, len(bases)),
		n:       1,
	}
	for a, b := range bases {
		s.extents[a] = b.N()
		s.n *= b.N()
	}
	return
}

// NewRaviartThomasSpace builds the scalar space of the first vector component
// of the nodal Raviart-Thomas element: Lagrange polynomials on degree+2
// Gauss-Lobatto points along axis 0 and on degree+1 Gauss-Lobatto points
// along the other axes. Degree 0 uses the midpoint on the other axes.
func NewRaviartThomasSpace(dim, degree int) (s *AnisotropicSpace, err error) {
	var (
		high, low         quadrature.Rule
		highBasis, lowBas *LagrangeBasis1D
	)
	if dim < 1 {
		err = utils.Preconditionf("dimension %d < 1", dim)
		return
	}
	if degree < 0 {
		err = utils.Preconditionf("degree %d < 0", degree)
		return
	}
	if high, err = quadrature.GaussLobatto(degree + 2); err != nil {
		return
	}
	if degree > 0 {
		if low, err = quadrature.GaussLobatto(degree + 1); err != nil {
			return
		}
	} else {
		low = quadrature.Midpoint()
	}
	if highBasis, err = NewLagrangeBasis1D(high.Coordinates()); err != nil {
		return
	}
	if lowBas, err = NewLagrangeBasis1D(low.Coordinates()); err != nil {
		return
	}
	bases := []*LagrangeBasis1D{highBasis}
	for d := 1; d < dim; d++ {
		bases = append(bases, lowBas)
	}
	return NewAnisotropicSpace(bases...)
}

func (s *AnisotropicSpace) N() int { return s.n }

func (s *AnisotropicSpace) Dim() int { return s.dim }

func (s *AnisotropicSpace) Extents() []int {
	ext := make([]int, s.dim)
	copy(ext, s.extents)
	return ext
}

func (s *AnisotropicSpace) Basis(axis int) *LagrangeBasis1D { return s.bases[axis] }

// Evaluate computes values and derivatives up to order 4 of every function at
// the point x. Outputs must follow the buffer contract with width dim^k.
func (s *AnisotropicSpace) Evaluate(x []float64, out Outputs) (err error) {
	if len(x) != s.dim {
		return utils.DimensionMismatch(len(x), s.dim)
	}
	if err = out.Validate(s.n, s.dim, 0); err != nil {
		return
	}
	K := out.MaxOrder()
	if K < 0 {
		return
	}
	// 1D derivative tables per axis and per 1D function
	table := make([][][]float64, s.dim)
	for a, b := range s.bases {
		table[a] = make([][]float64, b.N())
		for m := range table[a] {
			table[a][m] = make([]float64, K+1)
			b.Derivatives(m, x[a], table[a][m])
		}
	}
	// Per axis derivative counts of each flattened derivative index
	counts := make([][][]int, K+1)
	for k := 0; k <= K; k++ {
		if len(out[k]) == 0 {
			continue
		}
		counts[k] = DirectionCounts(s.dim, k)
	}
	for i := 0; i < s.n; i++ {
		mi := utils.MultiIndex(i, s.extents)
		for k := 0; k <= K; k++ {
			if len(out[k]) == 0 {
				continue
			}
			for f, cnt := range counts[k] {
				val := 1.
				for a := 0; a < s.dim; a++ {
					val *= table[a][mi[a]][cnt[a]]
				}
				out[k][i][f] = val
			}
		}
	}
	return
}

// Value evaluates function i alone
func (s *AnisotropicSpace) Value(i int, x []float64) (val float64) {
	mi := utils.MultiIndex(i, s.extents)
	val = 1.
	for a, b := range s.bases {
		val *= b.Value(mi[a], x[a])
	}
	return
}

// DirectionCounts returns, for every row-major flattened index over k
// derivative directions in dim dimensions, how often each axis appears
func DirectionCounts(dim, k int) (counts [][]int) {
	nf := utils.IPow(dim, k)
	counts = make([][]int, nf)
	for f := range counts {
		cnt := make([]int, dim)
		ff := f
		for m := 0; m < k; m++ {
			cnt[ff%dim]++
			ff /= dim
		}
		counts[f] = cnt
	}
	return
}
