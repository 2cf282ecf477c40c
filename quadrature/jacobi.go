package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hdivfe/utils"
)

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// JacobiGQ computes the N+1 Gauss-Jacobi points and weights on [-1,1] for
// the weight (1-x)^alpha (1+x)^beta using Golub-Welsch
func JacobiGQ(alpha, beta float64, N int) (x, w []float64, err error) {
	var (
		fac        float64
		h1, d0, d1 []float64
	)
	if N < 0 {
		err = utils.Preconditionf("JacobiGQ needs N >= 0, have %d", N)
		return
	}
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: diag(2./(h1(1:N)+2).*sqrt((1:N).*((1:N)+alpha+beta) .* ((1:N)+alpha).*((1:N)+beta)./(h1(1:N)+1)./(h1(1:N)+3)),1);
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		err = fmt.Errorf("eigenvalue decomposition failed for N = %d: %w",
			N, utils.ErrInternal)
		return
	}
	x = eig.Values(nil)

	VVr := mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	g0 := gamma0(alpha, beta)
	w = make([]float64, N+1)
	for j := range w {
		v := VVr.At(0, j)
		w[j] = v * v * g0
	}
	return
}

// JacobiGL computes the N+1 Gauss-Lobatto-Jacobi points on [-1,1]
func JacobiGL(alpha, beta float64, N int) (x []float64, err error) {
	if N < 1 {
		err = utils.Preconditionf("JacobiGL needs N >= 1, have %d", N)
		return
	}
	x = make([]float64, N+1)
	x[0] = -1
	x[N] = 1
	if N == 1 {
		return
	}
	var xint []float64
	if xint, _, err = JacobiGQ(alpha+1, beta+1, N-2); err != nil {
		return
	}
	for i := 1; i < N; i++ {
		x[i] = xint[i-1]
	}
	return
}

// legendreP evaluates the (unnormalized) Legendre polynomial of degree N
func legendreP(N int, x float64) (p float64) {
	var (
		pm1 = 1.
	)
	if N == 0 {
		return 1.
	}
	p = x
	for n := 1; n < N; n++ {
		fn := float64(n)
		p, pm1 = ((2*fn+1)*x*p-fn*pm1)/(fn+1), p
	}
	return
}
