package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/hdivfe/InputParameters"
	"github.com/notargets/hdivfe/rtnodal"
)

const exampleFile = `
########################################
Title: "Test Case"
Dim: 3
Degree: 1
SourceDegree: 2
Face: 0
Subface: -1         # whole face, or 0 to 2^(Dim-1)-1
RefinementCase: 7   # bit mask of the cut axes, 7 = isotropic in 3D
Child: 0
Tolerance: 1.e-10
########################################
`

func addStudyFlags(c *cobra.Command) {
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the study parameters, like:"+exampleFile)
	c.Flags().IntP("dim", "D", 2, "reference cell dimension, 2 or 3")
	c.Flags().IntP("degree", "n", 1, "element degree, 0 is the lowest order")
	c.Flags().IntP("sourceDegree", "s", 1, "degree of the neighbor element")
	c.Flags().IntP("face", "f", 0, "reference cell face")
	c.Flags().Int("subface", -1, "isotropic child of the face, negative for the whole face")
	c.Flags().IntP("refinementCase", "r", 3, "bit mask of the cut axes")
	c.Flags().IntP("child", "c", 0, "child of the refinement case")
	c.Flags().Float64P("tolerance", "t", 1.e-10, "tolerance of the consistency checks")
}

// processInput reads the parameter file if given, then applies the flags set
// on the command line
func processInput(cmd *cobra.Command) (ip *InputParameters.InputParameters, err error) {
	ip = InputParameters.NewInputParameters()
	var fileName string
	if fileName, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(fileName) != 0 {
		var data []byte
		if data, err = os.ReadFile(fileName); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
	}
	for flag, field := range map[string]*int{
		"dim":            &ip.Dim,
		"degree":         &ip.Degree,
		"sourceDegree":   &ip.SourceDegree,
		"face":           &ip.Face,
		"subface":        &ip.Subface,
		"refinementCase": &ip.RefinementCase,
		"child":          &ip.Child,
	} {
		if cmd.Flags().Changed(flag) {
			if *field, err = cmd.Flags().GetInt(flag); err != nil {
				return
			}
		}
	}
	if cmd.Flags().Changed("tolerance") {
		if ip.Tolerance, err = cmd.Flags().GetFloat64("tolerance"); err != nil {
			return
		}
	}
	if err = ip.Validate(); err != nil {
		err = fmt.Errorf("invalid study parameters: %w", err)
		return
	}
	logger.Debug("study parameters", zap.String("title", ip.Title),
		zap.Int("dim", ip.Dim), zap.Int("degree", ip.Degree))
	return
}

func newElement(dim, degree int) (*rtnodal.Element, error) {
	return rtnodal.NewElement(dim, degree, rtnodal.WithLogger(logger))
}
