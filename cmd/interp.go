package cmd

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/notargets/hdivfe/utils"
)

// InterpCmd represents the interp command
var InterpCmd = &cobra.Command{
	Use:   "interp",
	Short: "Interface matrices between elements of different degree",
	Long: `
Compares an element with a neighbor of higher (source) degree: domination,
the dofs shared on their common face, and the interpolation matrix from the
neighbor's face dofs onto the element's face, or onto one subface.

hdivfe interp -D 2 -n 1 -s 3 --subface 1`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip, err := processInput(cmd)
		if err != nil {
			return
		}
		if err = ip.ValidateSource(); err != nil {
			return
		}
		ip.Print()
		el, err := newElement(ip.Dim, ip.Degree)
		if err != nil {
			return
		}
		source, err := newElement(ip.Dim, ip.SourceDegree)
		if err != nil {
			return
		}
		dom, err := el.CompareForDomination(source, 1)
		if err != nil {
			return
		}
		fmt.Printf("%s vs %s: %s\n", el.Name(), source.Name(), dom)
		if ip.Dim == 2 {
			ids, err := el.HpLineDofIdentities(source)
			if err != nil {
				return err
			}
			fmt.Printf("Identical line dofs = %v\n", ids)
		} else {
			ids, err := el.HpQuadDofIdentities(source, ip.Face)
			if err != nil {
				return err
			}
			fmt.Printf("Identical quad dofs = %v\n", ids)
		}
		var im utils.Matrix
		if ip.Subface < 0 {
			im, err = el.FaceInterpolationMatrix(source, ip.Face)
		} else {
			im, err = el.SubfaceInterpolationMatrix(source, ip.Subface, ip.Face)
		}
		if err != nil {
			return
		}
		fmt.Println(im.Print(im.Name()))
		return ReportRowSums(im, ip.Tolerance)
	},
}

func init() {
	rootCmd.AddCommand(InterpCmd)
	addStudyFlags(InterpCmd)
}

// ReportRowSums prints the deviation of the row sums from one
func ReportRowSums(im utils.Matrix, tol float64) (err error) {
	var (
		dev         = make(stats.Float64Data, 0)
		maxDev, avg float64
	)
	for _, s := range im.RowSums() {
		dev = append(dev, math.Abs(s-1))
	}
	if maxDev, err = stats.Max(dev); err != nil {
		return
	}
	if avg, err = stats.Mean(dev); err != nil {
		return
	}
	fmt.Printf("Row sum deviation: max %8.3g, mean %8.3g\n", maxDev, avg)
	if maxDev > tol {
		err = fmt.Errorf("row sum deviation %g exceeds %g", maxDev, tol)
	}
	return
}
