package polynomials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

func TestLagrangeBasis1D(t *testing.T) {
	for n := 2; n < 7; n++ {
		q, err := quadrature.GaussLobatto(n)
		require.NoError(t, err)
		R := q.Coordinates()
		lb, err := NewLagrangeBasis1D(R)
		require.NoError(t, err)
		// Check the Lagrange property
		for j := 0; j < lb.N(); j++ {
			for i, r := range R {
				if i == j {
					assert.InDeltaf(t, 1., lb.Value(j, r), 1.e-13, "")
				} else {
					assert.InDeltaf(t, 0., lb.Value(j, r), 1.e-13, "")
				}
			}
		}
		// Reproduction of x^p and its derivatives, p <= degree
		x := 0.3141
		for p := 0; p < n; p++ {
			sum := make([]float64, MaxDerivativeOrder+1)
			d := make([]float64, MaxDerivativeOrder+1)
			for j, xj := range R {
				lb.Derivatives(j, x, d)
				for k := range d {
					sum[k] += math.Pow(xj, float64(p)) * d[k]
				}
			}
			for k := range sum {
				assert.InDeltaf(t, monomialDerivative(p, k, x), sum[k], 1.e-9,
					"n=%d p=%d k=%d", n, p, k)
			}
		}
	}
	_, err := NewLagrangeBasis1D([]float64{0, 0.5, 0.5})
	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
}

func monomialDerivative(p, k int, x float64) float64 {
	if k > p {
		return 0
	}
	c := 1.
	for i := 0; i < k; i++ {
		c *= float64(p - i)
	}
	return c * math.Pow(x, float64(p-k))
}

func TestAnisotropicSpaceCounts(t *testing.T) {
	for _, dim := range []int{1, 2, 3} {
		for degree := 0; degree < 4; degree++ {
			s, err := NewRaviartThomasSpace(dim, degree)
			require.NoError(t, err)
			assert.Equal(t, (degree+2)*utils.IPow(degree+1, dim-1), s.N())
		}
	}
}

func TestAnisotropicSpaceEvaluate(t *testing.T) {
	for _, dim := range []int{2, 3} {
		for degree := 0; degree < 3; degree++ {
			s, err := NewRaviartThomasSpace(dim, degree)
			require.NoError(t, err)
			out := NewOutputs(s.N(), dim, 0, 0, 1, 2, 3, 4)
			x := []float64{0.21, 0.67, 0.43}[:dim]
			require.NoError(t, s.Evaluate(x, out))
			// Partition of unity: values sum to 1, all derivatives sum to 0
			for k := 0; k <= MaxDerivativeOrder; k++ {
				for f := range out[k][0] {
					var sum float64
					for i := range out[k] {
						sum += out[k][i][f]
					}
					if k == 0 {
						assert.InDelta(t, 1., sum, 1.e-12)
					} else {
						assert.InDelta(t, 0., sum, 1.e-8)
					}
				}
			}
			// Gradient against central differences
			h := 1.e-6
			for i := 0; i < s.N(); i++ {
				assert.InDelta(t, s.Value(i, x), out[0][i][0], 1.e-14)
				for a := 0; a < dim; a++ {
					xp := append([]float64{}, x...)
					xm := append([]float64{}, x...)
					xp[a] += h
					xm[a] -= h
					fd := (s.Value(i, xp) - s.Value(i, xm)) / (2 * h)
					assert.InDelta(t, fd, out[1][i][a], 1.e-6)
				}
			}
			// Hessians are symmetric
			for i := 0; i < s.N(); i++ {
				for a := 0; a < dim; a++ {
					for b := 0; b < dim; b++ {
						assert.Equal(t, out[2][i][a*dim+b], out[2][i][b*dim+a])
					}
				}
			}
		}
	}
}

func TestAnisotropicSpaceBufferContract(t *testing.T) {
	s, err := NewRaviartThomasSpace(2, 1)
	require.NoError(t, err)
	// Skipped orders are fine
	out := NewOutputs(s.N(), 2, 0, 2)
	assert.NoError(t, s.Evaluate([]float64{0.5, 0.5}, out))
	// Wrong number of entries
	out = NewOutputs(s.N()-1, 2, 0, 0)
	assert.ErrorIs(t, s.Evaluate([]float64{0.5, 0.5}, out), utils.ErrDimensionMismatch)
	assert.ErrorIs(t, s.Evaluate([]float64{0.5, 0.5}, out), utils.ErrPreconditionViolation)
	// Wrong entry width
	out = NewOutputs(s.N(), 3, 0, 1)
	assert.ErrorIs(t, s.Evaluate([]float64{0.5, 0.5}, out), utils.ErrDimensionMismatch)
}
