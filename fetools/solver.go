// Package fetools computes the dense transfer matrices between a reference
// element and its children under refinement.
package fetools

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

// Element is what the solver needs from a vector valued nodal element whose
// dof i is the value of component SupportComponent(i) at support point i
type Element interface {
	Dim() int
	MaxDegree() int
	NDofsPerCell() int
	GeneralizedSupportPoints() [][]float64
	SupportComponent(i int) int
	ShapeValues(p []float64) ([][]float64, error)
}

// EmbeddingSolver returns one matrix per child of the refinement case.
// Embedding matrices map parent dofs to child dofs, projection matrices map
// child dofs back to the parent.
type EmbeddingSolver interface {
	EmbeddingMatrices(fe Element, rc geometry.RefinementCase) ([]utils.Matrix, error)
	ProjectionMatrices(fe Element, rc geometry.RefinementCase) ([]utils.Matrix, error)
}

// DefaultSolver treats the element as H(div) conforming: fields move between
// parent and child with the contravariant Piola transform of the child map,
// which is diagonal with entry 1/2 on every cut axis.
type DefaultSolver struct {
	// MaxWorkers bounds the children processed concurrently, 0 is unbounded
	MaxWorkers int
}

func (s DefaultSolver) group() *errgroup.Group {
	g := new(errgroup.Group)
	if s.MaxWorkers > 0 {
		g.SetLimit(s.MaxWorkers)
	}
	return g
}

// piolaScale is det(J)/J[comp] for the diagonal child map J
func piolaScale(dim int, rc geometry.RefinementCase, comp int) (s float64) {
	s = 1.
	for a := 0; a < dim; a++ {
		if a != comp {
			s *= rc.Scale(a)
		}
	}
	return
}

func validate(fe Element, rc geometry.RefinementCase) error {
	if fe == nil {
		return utils.Preconditionf("nil element")
	}
	return rc.Validate(fe.Dim())
}

// EmbeddingMatrices interpolates every parent shape function, pulled back to
// the child, at the child's support points. The child space contains the
// pull back, so the interpolation is exact.
func (s DefaultSolver) EmbeddingMatrices(fe Element, rc geometry.RefinementCase) (P []utils.Matrix, err error) {
	if err = validate(fe, rc); err != nil {
		return
	}
	var (
		dim   = fe.Dim()
		n     = fe.NDofsPerCell()
		pts   = fe.GeneralizedSupportPoints()
		g     = s.group()
		scale = make([]float64, dim)
	)
	for comp := range scale {
		scale[comp] = piolaScale(dim, rc, comp)
	}
	P = make([]utils.Matrix, rc.NChildren())
	for child := range P {
		child := child
		g.Go(func() error {
			Pc := utils.NewMatrix(n, n)
			for i, x := range pts {
				comp := fe.SupportComponent(i)
				vals, err := fe.ShapeValues(rc.ChildToParent(dim, child, x))
				if err != nil {
					return err
				}
				for j := 0; j < n; j++ {
					Pc.Set(i, j, scale[comp]*vals[j][comp])
				}
			}
			P[child] = Pc
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		P = nil
	}
	return
}

// ProjectionMatrices is the L2 projection of a field given piecewise on the
// children onto the parent space, R_c = M^-1 B_c. Together with the
// embedding it satisfies sum_c R_c P_c = I.
func (s DefaultSolver) ProjectionMatrices(fe Element, rc geometry.RefinementCase) (R []utils.Matrix, err error) {
	if err = validate(fe, rc); err != nil {
		return
	}
	var (
		dim  = fe.Dim()
		n    = fe.NDofsPerCell()
		quad quadrature.Rule
		chol mat.Cholesky
	)
	if quad, err = gaussRule(fe); err != nil {
		return
	}
	// Parent mass matrix
	M := mat.NewSymDense(n, nil)
	for q, x := range quad.Points {
		var vals [][]float64
		if vals, err = fe.ShapeValues(x); err != nil {
			return
		}
		w := quad.Weights[q]
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				M.SetSym(i, j, M.At(i, j)+w*dot(vals[i], vals[j]))
			}
		}
	}
	if ok := chol.Factorize(M); !ok {
		err = utils.Internalf("mass matrix of order %d is not positive definite", n)
		return
	}
	var (
		g     = s.group()
		scale = make([]float64, dim)
	)
	for comp := range scale {
		scale[comp] = rc.Scale(comp)
	}
	R = make([]utils.Matrix, rc.NChildren())
	for child := range R {
		child := child
		g.Go(func() error {
			B := mat.NewDense(n, n, nil)
			for q, x := range quad.Points {
				parent, err := fe.ShapeValues(rc.ChildToParent(dim, child, x))
				if err != nil {
					return err
				}
				fine, err := fe.ShapeValues(x)
				if err != nil {
					return err
				}
				w := quad.Weights[q]
				for i := 0; i < n; i++ {
					for j := 0; j < n; j++ {
						var sum float64
						for comp := 0; comp < dim; comp++ {
							sum += scale[comp] * parent[i][comp] * fine[j][comp]
						}
						B.Set(i, j, B.At(i, j)+w*sum)
					}
				}
			}
			Rc := utils.NewMatrix(n, n)
			if err := chol.SolveTo(Rc.M, B); err != nil {
				return utils.Internalf("projection solve for child %d: %v", child, err)
			}
			R[child] = Rc
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		R = nil
	}
	return
}

// gaussRule integrates products of two shape functions exactly
func gaussRule(fe Element) (q quadrature.Rule, err error) {
	var r quadrature.Rule
	if r, err = quadrature.Gauss(fe.MaxDegree() + 1); err != nil {
		return
	}
	return quadrature.Tensor(r, fe.Dim())
}

func dot(a, b []float64) (d float64) {
	for i := range a {
		d += a[i] * b[i]
	}
	return
}
