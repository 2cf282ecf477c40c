package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/hdivfe/rtnodal"
)

// TablesCmd represents the tables command
var TablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the dof numbering tables of an element",
	Long: `
Prints the dof counts, the lexicographic to hierarchic numbering, the per
component renumbering of the rotated space, the generalized support points and
the face orientation table (3D only) of the nodal Raviart-Thomas element.

hdivfe tables -D 3 -n 1`,
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
		PrintTables(el)
		return
	},
}

func init() {
	rootCmd.AddCommand(TablesCmd)
	addStudyFlags(TablesCmd)
}

func PrintTables(el *rtnodal.Element) {
	dt := el.Ordering()
	fmt.Printf("%s\n", el.Name())
	fmt.Printf("[%d]\t\t\t\t= Dofs per cell\n", el.NDofsPerCell())
	fmt.Printf("%v\t\t\t= Dofs per object\n", el.DofsPerObject())
	fmt.Printf("Lexicographic to hierarchic = %v\n", dt.LexicographicToHierarchic)
	for d, ra := range dt.RenumberAniso {
		fmt.Printf("Renumbering of component %d = %v\n", d, ra)
	}
	fmt.Printf("Fingerprint = %s\n", dt.Fingerprint())
	C := el.SparseInterfaceConstraints()
	nr, nc := C.Dims()
	fmt.Printf("Interface constraints: %dx%d, %d nonzeros\n", nr, nc, C.NNZ())
	fmt.Println("Generalized support points:")
	for i, p := range el.GeneralizedSupportPoints() {
		fmt.Printf("%4d component %d at %8.5f\n", i, el.SupportComponent(i), p)
	}
	ft := el.FaceOrientation()
	if ft.NDofs() == 0 {
		return
	}
	fmt.Println("Face orientation index shifts (orientation, flip, rotation):")
	for local := 0; local < ft.NDofs(); local++ {
		fmt.Printf("%4d", local)
		for c := 0; c < rtnodal.NOrientationCases; c++ {
			delta, _ := ft.IndexDelta(local, c)
			sign, _ := ft.Sign(local, c)
			fmt.Printf(" %+3d(%+d)", delta, sign)
		}
		fmt.Println()
	}
}
