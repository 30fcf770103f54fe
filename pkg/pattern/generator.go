package pattern

import (
	"math"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"github.com/mobiusklein/chemical-elements/pkg/isotopes"
)

// EmptyCompositionError reports a pattern request for a composition with no
// entries.
type EmptyCompositionError struct{}

func (e *EmptyCompositionError) Error() string {
	return "cannot generate an isotopic pattern for an empty composition"
}

// Default generation parameters.
const (
	// DefaultPruneThreshold is the relative probability below which terms
	// are dropped after each intermediate convolution step.
	DefaultPruneThreshold = 1e-12
	// DefaultFinalThreshold is the relative intensity below which peaks are
	// dropped from the final raw distribution, independent of how the
	// intermediate pruning shaped it.
	DefaultFinalThreshold = 1e-10
	// DefaultMergeTolerance is the mass window, in Daltons, within which
	// final peaks merge. Aggregate isotopologue peaks sit roughly one
	// neutron (1.0034 Da) apart, so 0.45 Da collapses fine structure
	// without bridging adjacent peaks.
	DefaultMergeTolerance = 0.45
	// maxAutoPeaks caps the auto-estimated peak count for very large
	// molecules.
	maxAutoPeaks = 300
)

// Config holds the generation parameters for one pattern computation. The
// zero value of each threshold field selects the corresponding default.
type Config struct {
	// NPeaks is the target number of output peaks. 0 auto-estimates a count
	// from the composition's size and isotopic diversity.
	NPeaks int
	// Charge converts neutral masses to m/z when nonzero.
	Charge int
	// ChargeCarrier is the mass of the charge carrier; 0 selects the proton.
	ChargeCarrier float64
	// PruneThreshold is the relative intermediate pruning threshold.
	PruneThreshold float64
	// FinalThreshold is the relative final drop threshold.
	FinalThreshold float64
	// MergeTolerance is the final peak-merge mass window in Daltons.
	MergeTolerance float64
}

// IsotopicVariants computes the theoretical isotopic pattern of a composition
// with default thresholds. npeaks of 0 auto-estimates the output length;
// charge of 0 reports neutral masses, otherwise m/z at that charge state with
// a proton carrier. Peaks are ordered by ascending m/z with intensities
// normalized to sum to 1.0.
func IsotopicVariants(c *core.Composition, npeaks, charge int) (Pattern, error) {
	cfg := Config{NPeaks: npeaks, Charge: charge}
	return cfg.Generate(c)
}

// Generate computes the isotopic pattern of a composition under the
// receiver's parameters. It fails with EmptyCompositionError when the
// composition has no entries. A non-empty composition whose counts are all
// non-positive yields an empty, valid pattern.
func (cfg *Config) Generate(c *core.Composition) (Pattern, error) {
	if c == nil || c.IsEmpty() {
		return nil, &EmptyCompositionError{}
	}

	prune := cfg.PruneThreshold
	if prune == 0 {
		prune = DefaultPruneThreshold
	}
	raw, err := convolveComposition(c, prune)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return Pattern{}, nil
	}

	npeaks := cfg.NPeaks
	if npeaks == 0 {
		npeaks, err = autoPeakCount(c)
		if err != nil {
			return nil, err
		}
	}

	final := cfg.FinalThreshold
	if final == 0 {
		final = DefaultFinalThreshold
	}
	tolerance := cfg.MergeTolerance
	if tolerance == 0 {
		tolerance = DefaultMergeTolerance
	}
	f := Filter{RelativeThreshold: final, MergeTolerance: tolerance, TopN: npeaks}

	out := make(Pattern, len(raw))
	for i, t := range raw {
		out[i] = Peak{MZ: t.mass, Intensity: t.prob}
	}
	out = f.Apply(out)

	carrier := cfg.ChargeCarrier
	if carrier == 0 {
		carrier = core.Proton
	}
	return out.ChargeState(cfg.Charge, carrier), nil
}

// convolveComposition builds the raw neutral-mass distribution: each entry's
// single-atom distribution is raised to its count by self-convolution, and
// the per-entry powers are convolved together in canonical entry order.
// Entries with non-positive counts contribute no isotopic variants.
func convolveComposition(c *core.Composition, prune float64) (dist, error) {
	table := c.Table()
	var out dist
	for _, e := range c.Entries() {
		if e.Count <= 0 {
			continue
		}
		atom, err := atomDistribution(table, e.Spec)
		if err != nil {
			return nil, err
		}
		powered := power(atom, e.Count, prune)
		if out == nil {
			out = powered
		} else {
			out = compact(convolve(out, powered), prune)
		}
	}
	return out, nil
}

// atomDistribution returns the single-atom isotope distribution for one
// specification: the element's natural isotope probabilities, or a single
// certain term at the nuclide mass for an explicit isotope.
func atomDistribution(table *isotopes.Table, spec core.ElementSpec) (dist, error) {
	if spec.Isotope != 0 {
		iso, err := table.Isotope(spec.Symbol, spec.Isotope)
		if err != nil {
			return nil, err
		}
		return dist{{mass: iso.Mass, prob: 1}}, nil
	}
	elt, err := table.Lookup(spec.Symbol)
	if err != nil {
		return nil, err
	}
	var d dist
	for _, iso := range elt.Isotopes() {
		if iso.Abundance > 0 {
			d = append(d, term{mass: iso.Mass, prob: iso.Abundance})
		}
	}
	return d, nil
}

// autoPeakCount estimates how many peaks cover a composition's envelope. The
// estimate grows with the square root of the maximum number of isotopic
// variants, the sum over natural-mix entries of count times the element's
// widest neutron shift, so larger and more isotopically diverse molecules get
// more peaks.
func autoPeakCount(c *core.Composition) (int, error) {
	table := c.Table()
	maxVariants := 0
	for _, e := range c.Entries() {
		if e.Count <= 0 || e.Spec.Isotope != 0 {
			continue
		}
		elt, err := table.Lookup(e.Spec.Symbol)
		if err != nil {
			return 0, err
		}
		maxVariants += e.Count * elt.MaxNeutronShift()
	}
	npeaks := int(math.Sqrt(float64(maxVariants))) - 2
	if npeaks < 3 {
		npeaks = 3
	}
	if npeaks > maxAutoPeaks {
		npeaks = maxAutoPeaks
	}
	return npeaks + 1, nil
}
