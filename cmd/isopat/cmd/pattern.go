package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"github.com/mobiusklein/chemical-elements/pkg/pattern"
)

var (
	patternNPeaks    int
	patternCharge    int
	patternTolerance float64
	patternThreshold float64
)

var patternCmd = &cobra.Command{
	Use:   "pattern <formula>",
	Short: "Compute the theoretical isotopic pattern of a formula",
	Long: `Compute the theoretical isotopic pattern of a chemical formula and print
one m/z and relative intensity pair per line.

Examples:
  isopat pattern C6H12O6
  isopat pattern C34H53O15N7 --npeaks 15 --charge 1`,
	Args: cobra.ExactArgs(1),
	RunE: runPattern,
}

func init() {
	patternCmd.Flags().IntVarP(&patternNPeaks, "npeaks", "n", 0, "Number of peaks to report (0 = auto-estimate)")
	patternCmd.Flags().IntVarP(&patternCharge, "charge", "z", 0, "Charge state (0 = neutral masses)")
	patternCmd.Flags().Float64Var(&patternTolerance, "merge-tolerance", 0, "Peak merge mass window in Da (0 = default)")
	patternCmd.Flags().Float64Var(&patternThreshold, "threshold", 0, "Relative intensity drop threshold (0 = default)")
}

func runPattern(cmd *cobra.Command, args []string) error {
	comp, err := core.Parse(args[0])
	if err != nil {
		return err
	}

	cfg := pattern.Config{
		NPeaks:         intSetting(cmd, "npeaks", patternNPeaks),
		Charge:         intSetting(cmd, "charge", patternCharge),
		MergeTolerance: floatSetting(cmd, "merge-tolerance", patternTolerance),
		FinalThreshold: floatSetting(cmd, "threshold", patternThreshold),
	}
	peaks, err := cfg.Generate(comp)
	if err != nil {
		return err
	}

	for _, pk := range peaks {
		fmt.Printf("%.6f\t%.6f\n", pk.MZ, pk.Intensity)
	}
	return nil
}

// intSetting resolves a numeric option: an explicitly set flag wins,
// otherwise the config-file value applies.
func intSetting(cmd *cobra.Command, key string, flagValue int) int {
	if cmd.Flags().Changed(key) {
		return flagValue
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return flagValue
}

// floatSetting is intSetting for float options.
func floatSetting(cmd *cobra.Command, key string, flagValue float64) float64 {
	if cmd.Flags().Changed(key) {
		return flagValue
	}
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return flagValue
}
