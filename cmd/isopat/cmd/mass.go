package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobiusklein/chemical-elements/pkg/core"
)

var massCharge int

var massCmd = &cobra.Command{
	Use:   "mass <formula>",
	Short: "Compute the monoisotopic mass of a formula",
	Long: `Compute the monoisotopic mass of a chemical formula, and its m/z at the
requested charge state.

Examples:
  isopat mass H2O
  isopat mass C34H53O15N7 --charge 2`,
	Args: cobra.ExactArgs(1),
	RunE: runMass,
}

func init() {
	massCmd.Flags().IntVarP(&massCharge, "charge", "z", 0, "Charge state for m/z output (0 = neutral mass only)")
}

func runMass(cmd *cobra.Command, args []string) error {
	comp, err := core.Parse(args[0])
	if err != nil {
		return err
	}

	charge := intSetting(cmd, "charge", massCharge)
	mass := comp.Mass()
	fmt.Printf("%s\t%.6f\n", comp, mass)
	if charge != 0 {
		mz := core.MassChargeRatio(mass, charge, core.Proton)
		fmt.Printf("m/z (%+d)\t%.6f\n", charge, mz)
	}
	return nil
}
