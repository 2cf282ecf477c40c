package quadrature

import (
	"sort"

	"github.com/notargets/hdivfe/utils"
)

// Rule is a quadrature on the unit hypercube [0,1]^dim. Points are stored
// with the first axis running fastest for tensor product rules.
type Rule struct {
	Points  [][]float64
	Weights []float64
}

func (q Rule) Size() int { return len(q.Weights) }

func (q Rule) Dim() int {
	if len(q.Points) == 0 {
		return 0
	}
	return len(q.Points[0])
}

// Coordinates returns the 1D points of a one dimensional rule
func (q Rule) Coordinates() (x []float64) {
	x = make([]float64, len(q.Points))
	for i, p := range q.Points {
		x[i] = p[0]
	}
	return
}

func newRule1D(x, w []float64) (q Rule) {
	q = Rule{
		Points:  make([][]float64, len(x)),
		Weights: make([]float64, len(w)),
	}
	// Map from [-1,1] to [0,1]
	for i := range x {
		q.Points[i] = []float64{0.5 * (x[i] + 1.)}
		q.Weights[i] = 0.5 * w[i]
	}
	sort.Sort(byCoordinate(q))
	return
}

type byCoordinate Rule

func (b byCoordinate) Len() int           { return len(b.Weights) }
func (b byCoordinate) Less(i, j int) bool { return b.Points[i][0] < b.Points[j][0] }
func (b byCoordinate) Swap(i, j int) {
	b.Points[i], b.Points[j] = b.Points[j], b.Points[i]
	b.Weights[i], b.Weights[j] = b.Weights[j], b.Weights[i]
}

// Gauss returns the n point Gauss-Legendre rule on [0,1]
func Gauss(n int) (q Rule, err error) {
	var x, w []float64
	if n < 1 {
		err = utils.Preconditionf("Gauss rule needs at least 1 point, have %d", n)
		return
	}
	if x, w, err = JacobiGQ(0, 0, n-1); err != nil {
		return
	}
	q = newRule1D(x, w)
	return
}

// GaussLobatto returns the n point Gauss-Lobatto-Legendre rule on [0,1],
// including both end points
func GaussLobatto(n int) (q Rule, err error) {
	var x []float64
	if n < 2 {
		err = utils.Preconditionf("Gauss-Lobatto rule needs at least 2 points, have %d", n)
		return
	}
	if x, err = JacobiGL(0, 0, n-1); err != nil {
		return
	}
	// w_i = 2 / (N (N+1) P_N(x_i)^2), N = n-1
	var (
		N  = n - 1
		fN = float64(N)
		w  = make([]float64, n)
	)
	for i, xi := range x {
		p := legendreP(N, xi)
		w[i] = 2. / (fN * (fN + 1.) * p * p)
	}
	q = newRule1D(x, w)
	// The end points are exact by construction
	q.Points[0][0], q.Points[n-1][0] = 0., 1.
	return
}

// Midpoint is the one point rule at 1/2
func Midpoint() (q Rule) {
	return Rule{
		Points:  [][]float64{{0.5}},
		Weights: []float64{1.},
	}
}

// Anisotropic builds the tensor product of one dimensional rules, one per
// axis, with axis 0 running fastest
func Anisotropic(rules ...Rule) (q Rule, err error) {
	var (
		dim    = len(rules)
		extent = make([]int, dim)
		np     = 1
	)
	if dim == 0 {
		err = utils.Preconditionf("anisotropic rule needs at least one axis")
		return
	}
	for a, r := range rules {
		if r.Dim() != 1 {
			err = utils.Preconditionf("axis %d rule has dimension %d, want 1",
				a, r.Dim())
			return
		}
		extent[a] = r.Size()
		np *= extent[a]
	}
	q = Rule{
		Points:  make([][]float64, np),
		Weights: make([]float64, np),
	}
	for i := 0; i < np; i++ {
		mi := utils.MultiIndex(i, extent)
		p := make([]float64, dim)
		w := 1.
		for a := 0; a < dim; a++ {
			p[a] = rules[a].Points[mi[a]][0]
			w *= rules[a].Weights[mi[a]]
		}
		q.Points[i] = p
		q.Weights[i] = w
	}
	return
}

// Tensor is the isotropic tensor product of one rule over dim axes
func Tensor(r Rule, dim int) (q Rule, err error) {
	rules := make([]Rule, dim)
	for a := range rules {
		rules[a] = r
	}
	return Anisotropic(rules...)
}
