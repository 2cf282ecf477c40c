package rtnodal

import (
	"math"

	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/quadrature"
	"github.com/notargets/hdivfe/utils"
)

// FaceInterpolationMatrix interpolates the face shape functions of el onto
// the face dofs of source. Row i belongs to face dof i of source, column j to
// face dof j of el. The source must carry at least as many face dofs.
func (el *Element) FaceInterpolationMatrix(source FiniteElement, face int) (utils.Matrix, error) {
	return el.interpolationMatrix(source, face, -1)
}

// SubfaceInterpolationMatrix is FaceInterpolationMatrix with the source face
// dofs placed on one isotropic child of the face
func (el *Element) SubfaceInterpolationMatrix(source FiniteElement, subface, face int) (utils.Matrix, error) {
	if subface < 0 || subface >= geometry.MaxChildrenPerFace(el.dim) {
		return utils.Matrix{}, utils.Preconditionf("subface %d not in [0,%d)",
			subface, geometry.MaxChildrenPerFace(el.dim))
	}
	return el.interpolationMatrix(source, face, subface)
}

// InterpolationTolerance is the cutoff below which entries snap to 0 or 1,
// also the allowed row sum deviation
func (el *Element) InterpolationTolerance() float64 {
	return 2.e-13 * float64(el.MaxDegree()) * float64(el.dim-1)
}

func (el *Element) interpolationMatrix(source FiniteElement, face, subface int) (im utils.Matrix, err error) {
	var (
		cp  counterpart
		pts quadrature.Rule
	)
	if err = geometry.ValidateFace(el.dim, face); err != nil {
		return
	}
	if cp, err = el.resolve(source); err != nil {
		return
	}
	if cp.family != FamilyRaviartThomasNodal {
		err = utils.NotImplementedf("interpolation from %s into %s", cp.family, el.Name())
		return
	}
	src := cp.rt
	if src.nDofsPerFace < el.nDofsPerFace {
		err = utils.NotImplementedf("interpolation from %s with %d face dofs into %s with %d",
			src.Name(), src.nDofsPerFace, el.Name(), el.nDofsPerFace)
		return
	}
	if pts, err = geometry.ProjectToSubface(el.dim, src.faceSupport, face, subface); err != nil {
		return
	}
	var (
		eps       = el.InterpolationTolerance()
		comp      = geometry.UnitNormalDirection(face)
		faceStart = face * el.nDofsPerFace
	)
	im = utils.NewMatrix(src.nDofsPerFace, el.nDofsPerFace)
	for i, p := range pts.Points {
		var vals [][]float64
		if vals, err = el.ShapeValues(p); err != nil {
			return
		}
		for j := 0; j < el.nDofsPerFace; j++ {
			im.Set(i, j, utils.SnapToUnit(vals[faceStart+j][comp], eps))
		}
	}
	// face shape functions restricted to the face are a Lagrange basis there
	for i, sum := range im.RowSums() {
		if math.Abs(sum-1) > eps {
			err = utils.Internalf("row %d of the interpolation from %s into %s sums to %g",
				i, src.Name(), el.Name(), sum)
			return
		}
	}
	im.SetReadOnly("InterpolationMatrix")
	return
}
