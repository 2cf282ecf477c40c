package polynomials

import (
	"fmt"
	"math"

	"github.com/notargets/hdivfe/utils"
)

// MaxDerivativeOrder is the highest derivative the evaluators produce
const MaxDerivativeOrder = 4

// LagrangeBasis1D is the complete Lagrange basis on a set of distinct nodes,
// l_j(x) = c_j * prod_{k != j} (x - x_k), with l_j(x_i) = delta_ij
type LagrangeBasis1D struct {
	Nodes   []float64
	weights []float64 // c_j
}

func NewLagrangeBasis1D(nodes []float64) (lb *LagrangeBasis1D, err error) {
	if len(nodes) == 0 {
		err = utils.Preconditionf("Lagrange basis needs at least one node")
		return
	}
	lb = &LagrangeBasis1D{
		Nodes:   make([]float64, len(nodes)),
		weights: make([]float64, len(nodes)),
	}
	copy(lb.Nodes, nodes)
	for j, xj := range nodes {
		c := 1.
		for k, xk := range nodes {
			if k == j {
				continue
			}
			if math.Abs(xj-xk) < utils.NODETOL {
				err = fmt.Errorf("nodes %d and %d coincide at %v: %w",
					j, k, xj, utils.ErrPreconditionViolation)
				return
			}
			c /= xj - xk
		}
		lb.weights[j] = c
	}
	return
}

func (lb *LagrangeBasis1D) N() int { return len(lb.Nodes) }

// Degree is the polynomial degree of each basis function
func (lb *LagrangeBasis1D) Degree() int { return len(lb.Nodes) - 1 }

// Derivatives fills out[k] with the k-th derivative of l_j at x, for
// k = 0..len(out)-1. The product form is expanded as a truncated Taylor series
// about x, multiplying in one linear factor at a time.
func (lb *LagrangeBasis1D) Derivatives(j int, x float64, out []float64) {
	var (
		t [MaxDerivativeOrder + 1]float64
		K = len(out) - 1
	)
	if K > MaxDerivativeOrder {
		panic(fmt.Errorf("derivative order %d exceeds %d", K, MaxDerivativeOrder))
	}
	t[0] = lb.weights[j]
	for k, xk := range lb.Nodes {
		if k == j {
			continue
		}
		// (x + h - xk) * sum_i t_i h^i
		dx := x - xk
		for i := K; i > 0; i-- {
			t[i] = dx*t[i] + t[i-1]
		}
		t[0] *= dx
	}
	for k := range out {
		out[k] = t[k] * utils.Factorial(k)
	}
}

func (lb *LagrangeBasis1D) Value(j int, x float64) float64 {
	var v [1]float64
	lb.Derivatives(j, x, v[:])
	return v[0]
}
