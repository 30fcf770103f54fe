package pattern

import (
	"math"

	"github.com/mobiusklein/chemical-elements/pkg/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// NeutronShift is the mass difference, in Daltons, between successive
// aggregated isotopologue peaks.
const NeutronShift = 1.0033548378

// lambdaFactor converts a neutral mass into the Poisson rate of the averaged
// envelope, following Bellew et al. 2006 (doi:10.1093/bioinformatics/btl276).
const lambdaFactor = 1800.0

// poissonMaxPeaks bounds the peak-count search for arbitrarily large masses.
const poissonMaxPeaks = 255

// PoissonApproximation estimates the aggregated isotopic envelope of a mass
// without convolution: npeaks peaks spaced one neutron apart, with
// intensities following a Poisson distribution with rate mass/1800,
// normalized to sum to 1.0. Charge of 0 reports neutral masses, otherwise
// m/z with a proton carrier. The approximation ignores elemental makeup and
// suits quick envelope-width estimates, not exact abundances.
func PoissonApproximation(mass float64, npeaks, charge int) Pattern {
	if npeaks <= 0 {
		return Pattern{}
	}
	out := make(Pattern, npeaks)
	lambda := mass / lambdaFactor
	if lambda > 0 {
		pmf := distuv.Poisson{Lambda: lambda}
		for i := range out {
			out[i].Intensity = pmf.Prob(float64(i))
		}
	} else {
		out[0].Intensity = 1
	}
	for i := range out {
		out[i].MZ = mass + float64(i)*NeutronShift
	}
	return out.ChargeState(charge, core.Proton).Normalize()
}

// PoissonPeakCount estimates how many envelope peaks a mass needs: the
// smallest count after which the next peak would contribute less than
// (1 - fraction) of the cumulative intensity. The count is always at least 1
// and at most 255.
func PoissonPeakCount(mass, fraction float64) int {
	lambda := mass / lambdaFactor
	cutoff := 1.0 - fraction

	p := 1.0
	factorial := 1.0
	acc := 1.0
	for i := 1; i < poissonMaxPeaks; i++ {
		p *= lambda
		factorial *= float64(i)
		cur := p / factorial
		if math.IsInf(cur, 1) {
			return i
		}
		acc += cur
		if cur/acc < cutoff {
			return i
		}
	}
	return poissonMaxPeaks
}
