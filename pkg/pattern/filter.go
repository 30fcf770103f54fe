package pattern

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Filter post-processes a raw convolved distribution into the reported
// pattern: negligible peaks are dropped, peaks closer than the mass tolerance
// are merged, the result is truncated to the most intense TopN peaks, and
// intensities are normalized to sum to 1.0. The generator applies a Filter
// internally; it can also refine an existing pattern as a standalone step.
type Filter struct {
	// RelativeThreshold drops peaks below this fraction of the base peak
	// before merging. 0 keeps everything.
	RelativeThreshold float64
	// MergeTolerance is the mass window, in Daltons, within which adjacent
	// peaks coalesce into one. 0 disables merging.
	MergeTolerance float64
	// TopN keeps only the N most intense peaks. 0 keeps everything.
	TopN int
}

// Apply runs the threshold, merge, truncate, and normalize stages in order.
// The result is sorted by ascending m/z.
func (f *Filter) Apply(p Pattern) Pattern {
	if len(p) == 0 {
		return p
	}
	if f.RelativeThreshold > 0 {
		p = f.dropBelowThreshold(p)
	}
	p.sortByMZ()
	if f.MergeTolerance > 0 {
		p = f.mergeWithinTolerance(p)
	}
	if f.TopN > 0 {
		p = f.truncateTopN(p)
	}
	return p.sortByMZ().Normalize()
}

// dropBelowThreshold removes peaks below the relative intensity cutoff.
func (f *Filter) dropBelowThreshold(p Pattern) Pattern {
	cutoff := p.BasePeak().Intensity * f.RelativeThreshold
	kept := p[:0]
	for _, pk := range p {
		if pk.Intensity >= cutoff {
			kept = append(kept, pk)
		}
	}
	return kept
}

// mergeWithinTolerance coalesces runs of adjacent peaks whose masses fall
// within the tolerance of the run's first peak. The merged peak sits at the
// intensity-weighted mean mass and carries the summed intensity. Anchoring
// each run at its first peak keeps well-separated isotopologue peaks, spaced
// roughly one neutron apart, from chaining into a single bin. The input must
// be sorted by ascending m/z.
func (f *Filter) mergeWithinTolerance(p Pattern) Pattern {
	out := p[:0]
	masses := make([]float64, 0, 8)
	weights := make([]float64, 0, 8)
	for start := 0; start < len(p); {
		end := start + 1
		for end < len(p) && p[end].MZ-p[start].MZ < f.MergeTolerance {
			end++
		}
		masses = masses[:0]
		weights = weights[:0]
		for _, pk := range p[start:end] {
			masses = append(masses, pk.MZ)
			weights = append(weights, pk.Intensity)
		}
		out = append(out, Peak{
			MZ:        stat.Mean(masses, weights),
			Intensity: floats.Sum(weights),
		})
		start = end
	}
	return out
}

// truncateTopN keeps the TopN most intense peaks, breaking intensity ties by
// ascending m/z so the kept set is deterministic.
func (f *Filter) truncateTopN(p Pattern) Pattern {
	if len(p) <= f.TopN {
		return p
	}
	sort.Slice(p, func(i, j int) bool {
		if p[i].Intensity != p[j].Intensity {
			return p[i].Intensity > p[j].Intensity
		}
		return p[i].MZ < p[j].MZ
	})
	return p[:f.TopN]
}
