package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"go.uber.org/multierr"

	"github.com/notargets/hdivfe/geometry"
)

// Parameters of an element study, obtained from the YAML input file
type InputParameters struct {
	Title          string  `yaml:"Title"`
	Dim            int     `yaml:"Dim"`
	Degree         int     `yaml:"Degree"`
	SourceDegree   int     `yaml:"SourceDegree"`   // Neighbor degree for interface matrices
	Face           int     `yaml:"Face"`           // Reference cell face, 0 to 2*Dim-1
	Subface        int     `yaml:"Subface"`        // Negative for the whole face
	RefinementCase int     `yaml:"RefinementCase"` // Bit mask of the cut axes
	Child          int     `yaml:"Child"`
	Tolerance      float64 `yaml:"Tolerance"`
}

// NewInputParameters has the defaults used for keys missing from the file
func NewInputParameters() *InputParameters {
	return &InputParameters{
		Title:          "Untitled",
		Dim:            2,
		Degree:         1,
		SourceDegree:   1,
		Subface:        -1,
		RefinementCase: 3,
		Tolerance:      1.e-10,
	}
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate reports every problem in the parameters at once
func (ip *InputParameters) Validate() (err error) {
	if ip.Dim < 2 || ip.Dim > 3 {
		err = multierr.Append(err, fmt.Errorf("Dim %d not in [2,3]", ip.Dim))
		// the rest depends on a usable dimension
		return
	}
	if ip.Degree < 0 {
		err = multierr.Append(err, fmt.Errorf("Degree %d < 0", ip.Degree))
	}
	if ip.Face < 0 || ip.Face >= geometry.FacesPerCell(ip.Dim) {
		err = multierr.Append(err, fmt.Errorf("Face %d not in [0,%d)", ip.Face, geometry.FacesPerCell(ip.Dim)))
	}
	if ip.Subface >= geometry.MaxChildrenPerFace(ip.Dim) {
		err = multierr.Append(err, fmt.Errorf("Subface %d not in [0,%d)", ip.Subface, geometry.MaxChildrenPerFace(ip.Dim)))
	}
	rc := geometry.RefinementCase(ip.RefinementCase)
	if ip.RefinementCase < 0 || ip.RefinementCase > 255 {
		err = multierr.Append(err, fmt.Errorf("RefinementCase %d is not a bit mask", ip.RefinementCase))
	} else if cerr := rc.ValidateChild(ip.Dim, ip.Child); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	if ip.Tolerance <= 0 {
		err = multierr.Append(err, fmt.Errorf("Tolerance %g must be positive", ip.Tolerance))
	}
	return
}

// ValidateSource checks the neighbor used for interface matrices, which must
// carry at least as many face dofs as the element
func (ip *InputParameters) ValidateSource() error {
	if ip.SourceDegree < ip.Degree {
		return fmt.Errorf("SourceDegree %d < Degree %d", ip.SourceDegree, ip.Degree)
	}
	return nil
}

func (ip *InputParameters) Refinement() geometry.RefinementCase {
	return geometry.RefinementCase(ip.RefinementCase)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dim)
	fmt.Printf("[%d]\t\t\t\t= Degree\n", ip.Degree)
	fmt.Printf("[%d]\t\t\t\t= Source Degree\n", ip.SourceDegree)
	fmt.Printf("[%d]\t\t\t\t= Face\n", ip.Face)
	if ip.Subface < 0 {
		fmt.Printf("[whole face]\t\t\t= Subface\n")
	} else {
		fmt.Printf("[%d]\t\t\t\t= Subface\n", ip.Subface)
	}
	fmt.Printf("[%s]\t\t\t= Refinement Case\n", ip.Refinement())
	fmt.Printf("[%d]\t\t\t\t= Child\n", ip.Child)
	fmt.Printf("%8.5g\t\t= Tolerance\n", ip.Tolerance)
}
