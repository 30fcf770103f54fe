package pattern

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFilterMergeWithinTolerance(t *testing.T) {
	// Two peaks inside the window collapse into one at the
	// intensity-weighted mean mass with summed intensity.
	f := &Filter{MergeTolerance: 0.45}
	got := f.Apply(Pattern{
		{MZ: 100.0, Intensity: 0.6},
		{MZ: 100.2, Intensity: 0.2},
	})

	wantMZ := (100.0*0.6 + 100.2*0.2) / 0.8
	want := Pattern{{MZ: wantMZ, Intensity: 1.0}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("merged pattern mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterMergeAnchorsAtGroupStart(t *testing.T) {
	// Peaks one neutron apart must not chain into a single bin even though
	// each consecutive gap could fall inside a sliding window.
	f := &Filter{MergeTolerance: 0.6}
	got := f.Apply(Pattern{
		{MZ: 100.0, Intensity: 0.5},
		{MZ: 100.5, Intensity: 0.3},
		{MZ: 101.0, Intensity: 0.2},
	})
	if len(got) != 2 {
		t.Fatalf("merge produced %d peaks, want 2", len(got))
	}
	if got[1].MZ < 100.9 || got[1].MZ > 101.1 {
		t.Errorf("second group centered at %v, want near 101.0", got[1].MZ)
	}
}

func TestFilterRelativeThreshold(t *testing.T) {
	f := &Filter{RelativeThreshold: 0.01}
	got := f.Apply(Pattern{
		{MZ: 100.0, Intensity: 1.0},
		{MZ: 101.0, Intensity: 0.5},
		{MZ: 102.0, Intensity: 0.001},
	})
	if len(got) != 2 {
		t.Fatalf("threshold kept %d peaks, want 2", len(got))
	}
	for _, pk := range got {
		if pk.MZ > 101.5 {
			t.Errorf("negligible peak at %v survived", pk.MZ)
		}
	}
}

func TestFilterTruncateTopN(t *testing.T) {
	f := &Filter{TopN: 2}
	got := f.Apply(Pattern{
		{MZ: 100.0, Intensity: 0.5},
		{MZ: 101.0, Intensity: 0.3},
		{MZ: 102.0, Intensity: 0.2},
	})
	if len(got) != 2 {
		t.Fatalf("truncation kept %d peaks, want 2", len(got))
	}
	// The kept set is re-sorted by ascending m/z and renormalized.
	if got[0].MZ != 100.0 || got[1].MZ != 101.0 {
		t.Errorf("kept peaks at %v and %v, want 100 and 101", got[0].MZ, got[1].MZ)
	}
	if total := got.TotalIntensity(); math.Abs(total-1.0) > 1e-12 {
		t.Errorf("kept intensities sum to %v, want 1.0", total)
	}
}

func TestFilterTruncateTiesBreakByMass(t *testing.T) {
	f := &Filter{TopN: 2}
	got := f.Apply(Pattern{
		{MZ: 103.0, Intensity: 0.25},
		{MZ: 101.0, Intensity: 0.25},
		{MZ: 102.0, Intensity: 0.5},
	})
	want := Pattern{
		{MZ: 101.0, Intensity: 1.0 / 3.0},
		{MZ: 102.0, Intensity: 2.0 / 3.0},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("tie-broken truncation mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEmptyPattern(t *testing.T) {
	f := &Filter{RelativeThreshold: 0.01, MergeTolerance: 0.45, TopN: 5}
	if got := f.Apply(Pattern{}); len(got) != 0 {
		t.Errorf("filtering an empty pattern produced %d peaks", len(got))
	}
}
