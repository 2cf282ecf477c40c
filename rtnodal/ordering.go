package rtnodal

import (
	"encoding/binary"
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/zeebo/blake3"

	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/utils"
)

// DofOrderingTable holds the dof numbering of the nodal Raviart-Thomas
// element of degree k in dim dimensions.
//
// Lexicographic: component d occupies the block [d*nSub, (d+1)*nSub) with
// nSub = (k+2)(k+1)^(dim-1). Inside a block the dofs run over the tensor
// lattice of component d with axis 0 fastest, k+2 points along axis d and
// k+1 points along every other axis.
//
// Hierarchic: all face dofs first, face by face. Face 2d+s holds the dofs of
// component d whose lattice index along axis d is 0 (s=0) or k+1 (s=1),
// ordered over the face axes with the first running fastest. Then the
// interior dofs, one block of k(k+1)^(dim-1) per component, in lattice order.
//
//	<--- nFace ---><--- nFace --->...<--- nFace ---><--- nInt --->...<--- nInt --->
//	     face 0         face 1        face 2dim-1    component 0     component dim-1
type DofOrderingTable struct {
	Dim, Degree               int
	LexicographicToHierarchic utils.Index
	HierarchicToLexicographic utils.Index
	// RenumberAniso[d] maps a lexicographic index of component d to the index
	// of the single stored anisotropic space, evaluated at the point rotated
	// by d
	RenumberAniso []utils.Index
}

func validateDimDegree(dim, degree int) error {
	if dim < 2 || dim > 3 {
		return utils.Preconditionf("nodal Raviart-Thomas needs dim in [2,3], have %d", dim)
	}
	if degree < 0 {
		return utils.Preconditionf("degree %d < 0", degree)
	}
	return nil
}

func NewDofOrderingTable(dim, degree int) (dt *DofOrderingTable, err error) {
	if err = validateDimDegree(dim, degree); err != nil {
		return
	}
	dt = &DofOrderingTable{
		Dim:    dim,
		Degree: degree,
	}
	dt.LexicographicToHierarchic = lexicographicToHierarchic(dim, degree)
	if dt.HierarchicToLexicographic, err = dt.LexicographicToHierarchic.Invert(); err != nil {
		return
	}
	dt.RenumberAniso = renumberAniso(dim, degree)
	return
}

func NDofsPerFace(dim, degree int) int { return utils.IPow(degree+1, dim-1) }

func NDofsPerCell(dim, degree int) int {
	return dim * (degree + 2) * utils.IPow(degree+1, dim-1)
}

func NInteriorDofs(dim, degree int) int {
	return dim * degree * utils.IPow(degree+1, dim-1)
}

// DofsPerObject lists dofs per vertex, line, (quad,) and cell
func DofsPerObject(dim, degree int) (dpo []int) {
	dpo = make([]int, dim+1)
	dpo[dim-1] = NDofsPerFace(dim, degree)
	dpo[dim] = NInteriorDofs(dim, degree)
	return
}

// componentExtents is the lattice shape of component d
func componentExtents(dim, degree, d int) (ext []int) {
	ext = make([]int, dim)
	for a := range ext {
		ext[a] = degree + 1
	}
	ext[d] = degree + 2
	return
}

func lexicographicToHierarchic(dim, degree int) (l2h utils.Index) {
	var (
		nSub   = (degree + 2) * utils.IPow(degree+1, dim-1)
		nFace  = NDofsPerFace(dim, degree)
		nInt   = degree * nFace
		faceSz = make([]int, dim-1)
	)
	for a := range faceSz {
		faceSz[a] = degree + 1
	}
	l2h = utils.NewIndex(dim * nSub)
	for d := 0; d < dim; d++ {
		ext := componentExtents(dim, degree, d)
		intExt := componentExtents(dim, degree, d)
		intExt[d] = degree
		for i := 0; i < nSub; i++ {
			mi := utils.MultiIndex(i, ext)
			switch mi[d] {
			case 0, degree + 1:
				face := 2 * d
				if mi[d] != 0 {
					face++
				}
				fi := make([]int, 0, dim-1)
				for _, a := range geometry.FaceAxes(dim, face) {
					fi = append(fi, mi[a])
				}
				l2h[i+d*nSub] = face*nFace + utils.LexIndex(fi, faceSz)
			default:
				mi[d]--
				l2h[i+d*nSub] = 2*dim*nFace + d*nInt + utils.LexIndex(mi, intExt)
			}
		}
	}
	return
}

func renumberAniso(dim, degree int) (ra []utils.Index) {
	var (
		nSub = (degree + 2) * utils.IPow(degree+1, dim-1)
	)
	ra = make([]utils.Index, dim)
	ra[0] = utils.NewRange(0, nSub-1)
	switch dim {
	case 2:
		// switch x and y component (i and j loops)
		ra[1] = utils.NewIndex(nSub)
		for j := 0; j < degree+2; j++ {
			for i := 0; i < degree+1; i++ {
				ra[1][j*(degree+1)+i] = j + i*(degree+2)
			}
		}
	case 3:
		// (i, j, k) -> (j, k, i)
		ra[1] = utils.NewIndex(nSub)
		for k := 0; k < degree+1; k++ {
			for j := 0; j < degree+2; j++ {
				for i := 0; i < degree+1; i++ {
					ra[1][(k*(degree+2)+j)*(degree+1)+i] =
						j + k*(degree+2) + i*(degree+2)*(degree+1)
				}
			}
		}
		// (i, j, k) -> (k, i, j)
		ra[2] = utils.NewIndex(nSub)
		for k := 0; k < degree+2; k++ {
			for j := 0; j < degree+1; j++ {
				for i := 0; i < degree+1; i++ {
					ra[2][(k*(degree+1)+j)*(degree+1)+i] =
						k + i*(degree+2) + j*(degree+2)*(degree+1)
				}
			}
		}
	}
	return
}

// HierarchicComponent is the vector component carried by hierarchic dof h
func (dt *DofOrderingTable) HierarchicComponent(h int) int {
	nSub := len(dt.LexicographicToHierarchic) / dt.Dim
	return dt.HierarchicToLexicographic[h] / nSub
}

// PermutationMatrix is P with P * lexicographic = hierarchic
func (dt *DofOrderingTable) PermutationMatrix() (*sparse.CSR, error) {
	return utils.NewPermutationMatrix(dt.LexicographicToHierarchic)
}

// Fingerprint hashes the numbering tables. Two tables with the same
// fingerprint produce identical dof layouts.
func (dt *DofOrderingTable) Fingerprint() string {
	var (
		buf = make([]byte, 0, 8*(2+len(dt.LexicographicToHierarchic)*(1+dt.Dim)))
	)
	put := func(v int) { buf = binary.LittleEndian.AppendUint64(buf, uint64(v)) }
	put(dt.Dim)
	put(dt.Degree)
	for _, v := range dt.LexicographicToHierarchic {
		put(v)
	}
	for _, ra := range dt.RenumberAniso {
		for _, v := range ra {
			put(v)
		}
	}
	sum := blake3.Sum256(buf)
	return fmt.Sprintf("%x", sum[:])
}
