package cmd

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/notargets/hdivfe/geometry"
	"github.com/notargets/hdivfe/rtnodal"
	"github.com/notargets/hdivfe/utils"
)

// RefineCmd represents the refine command
var RefineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Prolongation and restriction matrices of a refined cell",
	Long: `
Computes the prolongation and restriction matrices of one child under the
refinement case, then checks that restricting the prolongation over all
children reproduces the parent dofs.

hdivfe refine -D 2 -n 1 -r 1 -c 1`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip, err := processInput(cmd)
		if err != nil {
			return
		}
		ip.Print()
		el, err := newElement(ip.Dim, ip.Degree)
		if err != nil {
			return
		}
		rc := ip.Refinement()
		P, err := el.ProlongationMatrix(ip.Child, rc)
		if err != nil {
			return
		}
		R, err := el.RestrictionMatrix(ip.Child, rc)
		if err != nil {
			return
		}
		fmt.Println(P.Print(fmt.Sprintf("Prolongation[%s][%d]", rc, ip.Child)))
		fmt.Println(R.Print(fmt.Sprintf("Restriction[%s][%d]", rc, ip.Child)))
		return ReportRoundTrip(el, rc, ip.Tolerance)
	},
}

func init() {
	rootCmd.AddCommand(RefineCmd)
	addStudyFlags(RefineCmd)
}

// ReportRoundTrip prints how far the sum over children of R_c P_c is from
// the identity
func ReportRoundTrip(el *rtnodal.Element, rc geometry.RefinementCase, tol float64) (err error) {
	var (
		n      = el.NDofsPerCell()
		sum    = utils.NewMatrix(n, n)
		dev    = make(stats.Float64Data, 0, n*n)
		maxDev float64
	)
	for c := 0; c < rc.NChildren(); c++ {
		P, err := el.ProlongationMatrix(c, rc)
		if err != nil {
			return err
		}
		R, err := el.RestrictionMatrix(c, rc)
		if err != nil {
			return err
		}
		sum.Add(R.Mul(P))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.
			if i == j {
				want = 1.
			}
			dev = append(dev, math.Abs(sum.At(i, j)-want))
		}
	}
	if maxDev, err = stats.Max(dev); err != nil {
		return
	}
	p99, err := stats.Percentile(dev, 99)
	if err != nil {
		return
	}
	fmt.Printf("Round trip deviation over %d children: max %8.3g, 99th percentile %8.3g\n",
		rc.NChildren(), maxDev, p99)
	if maxDev > tol {
		err = fmt.Errorf("round trip deviation %g exceeds %g", maxDev, tol)
	}
	return
}
