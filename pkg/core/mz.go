package core

import "math"

// Reference masses in Daltons.
const (
	// Proton is the mass of a proton, the default charge carrier for
	// positive-mode electrospray adducts.
	Proton = 1.00727646688
	// Electron is the electron rest mass.
	Electron = 0.00054857990924
)

// MassChargeRatio converts a neutral mass to the mass-to-charge ratio
// observed at the given charge state: z charge carriers are added and the
// total divided by |z|. The charge must be nonzero.
func MassChargeRatio(neutralMass float64, charge int, chargeCarrier float64) float64 {
	z := float64(charge)
	return (neutralMass + z*chargeCarrier) / math.Abs(z)
}

// NeutralMass recovers the neutral mass from an observed mass-to-charge
// ratio at the given charge state. The charge must be nonzero.
func NeutralMass(mz float64, charge int, chargeCarrier float64) float64 {
	z := float64(charge)
	return mz*math.Abs(z) - z*chargeCarrier
}
