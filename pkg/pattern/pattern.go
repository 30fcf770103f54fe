// Package pattern computes theoretical isotopic mass distributions: the set
// of (m/z, relative abundance) peaks a molecule's isotopologues produce in a
// mass spectrum. Patterns are generated by convolving per-element isotope
// distributions with incremental pruning, then merged, truncated, and
// normalized into the reported envelope.
package pattern

import (
	"sort"

	"github.com/mobiusklein/chemical-elements/pkg/core"
)

// Peak is one isotopic peak: an m/z position and a relative intensity.
type Peak struct {
	MZ        float64
	Intensity float64
}

// Pattern is an isotopic peak sequence ordered by ascending m/z. The
// refinement methods return the receiver to allow chaining; they mutate in
// place, so use Clone first when the original must survive.
type Pattern []Peak

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// TotalIntensity returns the sum of all peak intensities.
func (p Pattern) TotalIntensity() float64 {
	total := 0.0
	for _, pk := range p {
		total += pk.Intensity
	}
	return total
}

// BasePeak returns the most intense peak, or a zero peak when the pattern is
// empty.
func (p Pattern) BasePeak() Peak {
	base := Peak{}
	for _, pk := range p {
		if pk.Intensity > base.Intensity {
			base = pk
		}
	}
	return base
}

// MonoisotopicPeak returns the lowest-m/z peak, or a zero peak when the
// pattern is empty.
func (p Pattern) MonoisotopicPeak() Peak {
	if len(p) == 0 {
		return Peak{}
	}
	return p[0]
}

// Normalize rescales intensities so they sum to 1.0. An empty or
// zero-intensity pattern is returned unchanged.
func (p Pattern) Normalize() Pattern {
	total := p.TotalIntensity()
	if total <= 0 {
		return p
	}
	return p.Scale(1 / total)
}

// Scale multiplies every intensity by a factor.
func (p Pattern) Scale(factor float64) Pattern {
	for i := range p {
		p[i].Intensity *= factor
	}
	return p
}

// Shift moves every peak by a fixed m/z offset.
func (p Pattern) Shift(delta float64) Pattern {
	for i := range p {
		p[i].MZ += delta
	}
	return p
}

// IgnoreBelow removes peaks whose intensity is below the given fraction of
// the base peak, then renormalizes the remainder.
func (p Pattern) IgnoreBelow(fraction float64) Pattern {
	threshold := p.BasePeak().Intensity * fraction
	kept := p[:0]
	for _, pk := range p {
		if pk.Intensity >= threshold {
			kept = append(kept, pk)
		}
	}
	return kept.Normalize()
}

// TruncateAfter keeps the leading peaks whose cumulative intensity reaches
// the given fraction of the total, then renormalizes the remainder.
func (p Pattern) TruncateAfter(fraction float64) Pattern {
	target := p.TotalIntensity() * fraction
	acc := 0.0
	for i, pk := range p {
		acc += pk.Intensity
		if acc >= target {
			return p[:i+1].Normalize()
		}
	}
	return p
}

// ChargeState converts the pattern's peaks from neutral-mass space to m/z at
// the given charge state. A charge of 0 leaves the pattern unchanged.
func (p Pattern) ChargeState(charge int, carrier float64) Pattern {
	if charge == 0 {
		return p
	}
	for i := range p {
		p[i].MZ = core.MassChargeRatio(p[i].MZ, charge, carrier)
	}
	return p
}

// sortByMZ orders peaks by ascending m/z.
func (p Pattern) sortByMZ() Pattern {
	sort.Slice(p, func(i, j int) bool { return p[i].MZ < p[j].MZ })
	return p
}
