package rtnodal

import (
	"github.com/notargets/hdivfe/utils"
)

// NOrientationCases is the number of {orientation, flip, rotation}
// combinations of a quadrilateral face
const NOrientationCases = 8

// OrientationCase numbers the face orientation flags as
// 4*orientation + 2*flip + rotation
func OrientationCase(orientation, flip, rotation bool) (c int) {
	if orientation {
		c += 4
	}
	if flip {
		c += 2
	}
	if rotation {
		c++
	}
	return
}

// FaceOrientationTable holds, for every face-interior dof of a quad face, the
// index shift and sign applied when the face is seen with a non-standard
// orientation from the neighboring cell. It is empty below three dimensions.
type FaceOrientationTable struct {
	n          int // dofs per face axis
	indexDelta [][NOrientationCases]int
	sign       [][NOrientationCases]int
}

func NewFaceOrientationTable(dim, degree int) (ft *FaceOrientationTable, err error) {
	if err = validateDimDegree(dim, degree); err != nil {
		return
	}
	ft = &FaceOrientationTable{}
	if dim < 3 {
		return
	}
	var (
		n      = degree + 1
		nDofs  = n * n
		permut = func(i, j int, c int) int {
			switch c {
			case 0: // orientation=false, flip=false, rotation=false
				return j + i*n
			case 1: // orientation=false, flip=false, rotation=true
				return i + (n-1-j)*n
			case 2: // orientation=false, flip=true, rotation=false
				return (n - 1 - j) + (n-1-i)*n
			case 3: // orientation=false, flip=true, rotation=true
				return (n - 1 - i) + j*n
			case 4: // standard orientation
				return i + j*n
			case 5: // orientation=true, flip=false, rotation=true
				return j + (n-1-i)*n
			case 6: // orientation=true, flip=true, rotation=false
				return (n - 1 - i) + (n-1-j)*n
			default: // orientation=true, flip=true, rotation=true
				return (n - 1 - j) + i*n
			}
		}
	)
	ft.n = n
	ft.indexDelta = make([][NOrientationCases]int, nDofs)
	ft.sign = make([][NOrientationCases]int, nDofs)
	for local := 0; local < nDofs; local++ {
		// face dofs are lexicographic with the first face axis fastest
		i, j := local%n, local/n
		for c := 0; c < NOrientationCases; c++ {
			ft.indexDelta[local][c] = permut(i, j, c) - local
			ft.sign[local][c] = 1
		}
	}
	return
}

// NDofs is the number of face dofs covered, zero below three dimensions
func (ft *FaceOrientationTable) NDofs() int { return len(ft.indexDelta) }

func (ft *FaceOrientationTable) validate(local, c int) error {
	if c < 0 || c >= NOrientationCases {
		return utils.Preconditionf("orientation case %d not in [0,%d)", c, NOrientationCases)
	}
	if len(ft.indexDelta) != 0 && (local < 0 || local >= len(ft.indexDelta)) {
		return utils.Preconditionf("face dof %d not in [0,%d)", local, len(ft.indexDelta))
	}
	return nil
}

// IndexDelta is the permuted index minus local, zero without a table
func (ft *FaceOrientationTable) IndexDelta(local, c int) (int, error) {
	if err := ft.validate(local, c); err != nil {
		return 0, err
	}
	if len(ft.indexDelta) == 0 {
		return 0, nil
	}
	return ft.indexDelta[local][c], nil
}

// Sign is +1 or -1, +1 without a table
func (ft *FaceOrientationTable) Sign(local, c int) (int, error) {
	if err := ft.validate(local, c); err != nil {
		return 0, err
	}
	if len(ft.sign) == 0 {
		return 1, nil
	}
	return ft.sign[local][c], nil
}

// Adjust returns the face dof index seen from a face with the given
// orientation flags, and the sign to apply to its value
func (ft *FaceOrientationTable) Adjust(local int, orientation, flip, rotation bool) (index, sign int, err error) {
	c := OrientationCase(orientation, flip, rotation)
	var delta int
	if delta, err = ft.IndexDelta(local, c); err != nil {
		return
	}
	if sign, err = ft.Sign(local, c); err != nil {
		return
	}
	index = local + delta
	return
}
