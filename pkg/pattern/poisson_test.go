package pattern

import (
	"math"
	"testing"

	"github.com/mobiusklein/chemical-elements/pkg/core"
)

func TestPoissonApproximation(t *testing.T) {
	peaks := PoissonApproximation(750.0, 4, 2)
	if len(peaks) != 4 {
		t.Fatalf("got %d peaks, want 4", len(peaks))
	}
	if total := peaks.TotalIntensity(); math.Abs(total-1.0) > 1e-9 {
		t.Errorf("intensities sum to %v, want 1.0", total)
	}

	// First peak at the doubly protonated monoisotopic m/z, the rest spaced
	// half a neutron apart at charge 2.
	wantMZ := core.MassChargeRatio(750.0, 2, core.Proton)
	if got := peaks[0].MZ; math.Abs(got-wantMZ) > 1e-6 {
		t.Errorf("first peak at %v, want %v", got, wantMZ)
	}
	spacing := peaks[1].MZ - peaks[0].MZ
	if math.Abs(spacing-NeutronShift/2) > 1e-6 {
		t.Errorf("peak spacing = %v, want %v", spacing, NeutronShift/2)
	}

	// Intensities decay monotonically while lambda < 1.
	for i := 1; i < len(peaks); i++ {
		if peaks[i].Intensity >= peaks[i-1].Intensity {
			t.Errorf("intensity did not decay at peak %d", i)
		}
	}
}

func TestPoissonApproximationEdgeCases(t *testing.T) {
	if got := PoissonApproximation(750.0, 0, 1); len(got) != 0 {
		t.Errorf("zero requested peaks produced %d", len(got))
	}

	// Zero mass degenerates to a single certain peak.
	peaks := PoissonApproximation(0.0, 3, 0)
	if len(peaks) != 3 {
		t.Fatalf("got %d peaks, want 3", len(peaks))
	}
	if peaks[0].Intensity != 1.0 {
		t.Errorf("zero-mass first intensity = %v, want 1.0", peaks[0].Intensity)
	}
}

func TestPoissonPeakCount(t *testing.T) {
	tests := []struct {
		name     string
		mass     float64
		fraction float64
		want     int
	}{
		{"small molecule", 750.0, 0.95, 3},
		{"zero mass still yields a peak", 0.0, 0.95, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PoissonPeakCount(tt.mass, tt.fraction); got != tt.want {
				t.Errorf("PoissonPeakCount(%v, %v) = %d, want %d", tt.mass, tt.fraction, got, tt.want)
			}
		})
	}
}

func TestPoissonPeakCountLargeMass(t *testing.T) {
	// Very large masses must return a bounded, positive count rather than
	// overflow.
	if got := PoissonPeakCount(39999000.23, 0.9999); got <= 0 || got > poissonMaxPeaks {
		t.Errorf("PoissonPeakCount for a huge mass = %d", got)
	}

	// Larger molecules need wider envelopes.
	small := PoissonPeakCount(750.0, 0.95)
	large := PoissonPeakCount(7500.0, 0.95)
	if large <= small {
		t.Errorf("peak count did not grow with mass: %d <= %d", large, small)
	}
}
