package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"github.com/mobiusklein/chemical-elements/pkg/pattern"
	"github.com/mobiusklein/chemical-elements/pkg/reader/formulas"
	"github.com/mobiusklein/chemical-elements/pkg/writer/sqlite"
)

var (
	libraryInput     string
	libraryOutput    string
	libraryCharge    int
	libraryNPeaks    int
	libraryTolerance float64
	libraryThreshold float64
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Generate a SQLite pattern library from a formula list",
	Long: `Read a formula list (one FORMULA [CHARGE] [NPEAKS] record per line, '#'
comments allowed), generate each formula's isotopic pattern, and write the
results into a SQLite library.

Per-line charge and peak-count fields override the command-level defaults.
Lines that fail to parse or generate are logged and skipped.

Examples:
  isopat library --input formulas.txt --output patterns.db
  isopat library --input formulas.txt --output patterns.db --charge 1 --npeaks 10`,
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().StringVarP(&libraryInput, "input", "i", "", "Formula list file (required)")
	libraryCmd.Flags().StringVarP(&libraryOutput, "output", "o", "", "Output SQLite library file (required)")
	libraryCmd.Flags().IntVarP(&libraryCharge, "charge", "z", 0, "Default charge state for lines without one")
	libraryCmd.Flags().IntVarP(&libraryNPeaks, "npeaks", "n", 0, "Default peak count for lines without one (0 = auto)")
	libraryCmd.Flags().Float64Var(&libraryTolerance, "merge-tolerance", 0, "Peak merge mass window in Da (0 = default)")
	libraryCmd.Flags().Float64Var(&libraryThreshold, "threshold", 0, "Relative intensity drop threshold (0 = default)")

	libraryCmd.MarkFlagRequired("input")
	libraryCmd.MarkFlagRequired("output")
}

func runLibrary(cmd *cobra.Command, args []string) error {
	inFile, err := os.Open(libraryInput)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	writer, err := sqlite.NewWriter(libraryOutput)
	if err != nil {
		return fmt.Errorf("failed to create output library: %w", err)
	}

	reader := formulas.NewReader(inFile)
	written, skipped := 0, 0
	defaultCharge := intSetting(cmd, "charge", libraryCharge)
	defaultNPeaks := intSetting(cmd, "npeaks", libraryNPeaks)

	for reader.Next() {
		entry := reader.Entry()

		charge := entry.Charge
		if charge == 0 {
			charge = defaultCharge
		}
		npeaks := entry.NPeaks
		if npeaks == 0 {
			npeaks = defaultNPeaks
		}

		comp, err := core.Parse(entry.Formula)
		if err != nil {
			logger.Warn("skipping malformed formula",
				zap.Int("line", entry.Line),
				zap.String("formula", entry.Formula),
				zap.Error(err))
			skipped++
			continue
		}

		cfg := pattern.Config{
			NPeaks:         npeaks,
			Charge:         charge,
			MergeTolerance: floatSetting(cmd, "merge-tolerance", libraryTolerance),
			FinalThreshold: floatSetting(cmd, "threshold", libraryThreshold),
		}
		peaks, err := cfg.Generate(comp)
		if err != nil {
			logger.Warn("skipping formula that failed to generate",
				zap.Int("line", entry.Line),
				zap.String("formula", entry.Formula),
				zap.Error(err))
			skipped++
			continue
		}

		if err := writer.WritePattern(entry.Formula, comp, peaks, charge); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write pattern for %q: %w", entry.Formula, err)
		}
		written++
		logger.Debug("wrote pattern",
			zap.Int("line", entry.Line),
			zap.String("formula", entry.Formula),
			zap.Int("peaks", len(peaks)))
	}
	if err := reader.Err(); err != nil {
		writer.Close()
		return fmt.Errorf("failed to read formula list: %w", err)
	}

	if err := writer.Finalize(); err != nil {
		return err
	}

	logger.Info("library complete",
		zap.String("output", libraryOutput),
		zap.Int("written", written),
		zap.Int("skipped", skipped))
	fmt.Printf("Wrote %d patterns to %s (%d skipped)\n", written, libraryOutput, skipped)
	return nil
}
