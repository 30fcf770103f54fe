package pattern

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mobiusklein/chemical-elements/pkg/core"
)

func testPattern() Pattern {
	return Pattern{
		{MZ: 100.0, Intensity: 0.7},
		{MZ: 101.0, Intensity: 0.2},
		{MZ: 102.0, Intensity: 0.08},
		{MZ: 103.0, Intensity: 0.02},
	}
}

func TestNormalize(t *testing.T) {
	p := Pattern{
		{MZ: 100.0, Intensity: 7.0},
		{MZ: 101.0, Intensity: 3.0},
	}.Normalize()
	want := Pattern{
		{MZ: 100.0, Intensity: 0.7},
		{MZ: 101.0, Intensity: 0.3},
	}
	if diff := cmp.Diff(want, p, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}

	// Normalizing an empty pattern is a no-op.
	if got := (Pattern{}).Normalize(); len(got) != 0 {
		t.Errorf("Normalize of empty pattern produced %d peaks", len(got))
	}
}

func TestScaleAndShift(t *testing.T) {
	p := testPattern().Scale(2).Shift(1.5)
	if got := p[0].Intensity; math.Abs(got-1.4) > 1e-12 {
		t.Errorf("scaled intensity = %v, want 1.4", got)
	}
	if got := p[0].MZ; math.Abs(got-101.5) > 1e-12 {
		t.Errorf("shifted m/z = %v, want 101.5", got)
	}
}

func TestBasePeak(t *testing.T) {
	p := testPattern()
	if got := p.BasePeak(); got.MZ != 100.0 {
		t.Errorf("base peak at %v, want 100.0", got.MZ)
	}
	if got := (Pattern{}).BasePeak(); got != (Peak{}) {
		t.Errorf("base peak of empty pattern = %+v, want zero", got)
	}
}

func TestIgnoreBelow(t *testing.T) {
	p := testPattern().IgnoreBelow(0.05)
	if len(p) != 3 {
		t.Fatalf("IgnoreBelow kept %d peaks, want 3", len(p))
	}
	if total := p.TotalIntensity(); math.Abs(total-1.0) > 1e-12 {
		t.Errorf("intensities sum to %v after IgnoreBelow, want 1.0", total)
	}
}

func TestTruncateAfter(t *testing.T) {
	p := testPattern().TruncateAfter(0.89)
	if len(p) != 2 {
		t.Fatalf("TruncateAfter kept %d peaks, want 2", len(p))
	}
	if total := p.TotalIntensity(); math.Abs(total-1.0) > 1e-12 {
		t.Errorf("intensities sum to %v after TruncateAfter, want 1.0", total)
	}
}

func TestChargeState(t *testing.T) {
	p := Pattern{{MZ: 180.06339, Intensity: 1.0}}.ChargeState(2, core.Proton)
	want := (180.06339 + 2*core.Proton) / 2
	if got := p[0].MZ; math.Abs(got-want) > 1e-9 {
		t.Errorf("charge-2 m/z = %v, want %v", got, want)
	}

	// Charge 0 leaves neutral masses untouched.
	p = Pattern{{MZ: 180.06339, Intensity: 1.0}}.ChargeState(0, core.Proton)
	if got := p[0].MZ; got != 180.06339 {
		t.Errorf("charge-0 m/z = %v, want 180.06339", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := testPattern()
	q := p.Clone().Scale(10)
	if p[0].Intensity == q[0].Intensity {
		t.Error("scaling the clone changed the original")
	}
}
