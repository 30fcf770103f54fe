package core

import (
	"math"
	"testing"
)

func TestMassChargeRatio(t *testing.T) {
	tests := []struct {
		name        string
		neutralMass float64
		charge      int
		expected    float64
		tolerance   float64
	}{
		{"singly protonated", 180.06339, 1, 181.0706664669, 1e-6},
		{"doubly protonated", 180.06339, 2, 91.0389714669, 1e-6},
		{"triply protonated", 799.35997, 3, 267.4605998002, 1e-6},
		{"deprotonated", 180.06339, -1, 179.0561135331, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MassChargeRatio(tt.neutralMass, tt.charge, Proton)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("MassChargeRatio() = %v, want %v (±%v)", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestNeutralMassRoundTrip(t *testing.T) {
	masses := []float64{18.0105646837, 180.06339, 799.35997}
	charges := []int{1, 2, 3, -1, -2}

	for _, mass := range masses {
		for _, charge := range charges {
			mz := MassChargeRatio(mass, charge, Proton)
			back := NeutralMass(mz, charge, Proton)
			if math.Abs(back-mass) > 1e-9 {
				t.Errorf("NeutralMass(MassChargeRatio(%v, %d)) = %v", mass, charge, back)
			}
		}
	}
}
