package akta

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTrace() *Trace {
	nan := math.NaN()
	return &Trace{
		Volume:       []float64{0, 1, 2, 3, 4},
		UV:           []float64{10, 2, 90, 5, 3},
		GradVolume:   []float64{0, 1, 2, 3, 4},
		GradPercentB: []float64{0, 25, 50, 75, 100},
		FracVolume:   []float64{nan, 1.0, nan, 3.0, 4.0},
		FracLabel:    []string{"", "T1", "", "T2", "Waste"},
		Cond:         []float64{0.5, 0.6, 5.0, 0.7, 0.5},
	}
}

func TestTraceStats(t *testing.T) {
	tr := sampleTrace()

	if v, ok := tr.MaxVolume(); !ok || v != 4 {
		t.Errorf("MaxVolume = (%v, %v), want (4, true)", v, ok)
	}
	if c, ok := tr.MaxCond(); !ok || c != 5.0 {
		t.Errorf("MaxCond = (%v, %v), want (5, true)", c, ok)
	}

	min, max, ok := tr.UVRange(0)
	if !ok || min != 2 || max != 90 {
		t.Errorf("UVRange(0) = (%v, %v, %v), want (2, 90, true)", min, max, ok)
	}

	// Skipping the first rows changes the minimum but never the maximum.
	min, max, ok = tr.UVRange(3)
	if !ok || min != 3 || max != 90 {
		t.Errorf("UVRange(3) = (%v, %v, %v), want (3, 90, true)", min, max, ok)
	}
}

func TestTraceStatsEmpty(t *testing.T) {
	tr := &Trace{}
	if _, ok := tr.MaxVolume(); ok {
		t.Error("MaxVolume on empty trace should report not-ok")
	}
	if _, _, ok := tr.UVRange(0); ok {
		t.Error("UVRange on empty trace should report not-ok")
	}
	if _, ok := tr.MaxCond(); ok {
		t.Error("MaxCond on empty trace should report not-ok")
	}
}

func TestTraceBoundaries(t *testing.T) {
	got := sampleTrace().Boundaries()
	want := []Boundary{
		{Volume: 1.0, Label: "T1"},
		{Volume: 3.0, Label: "T2"},
		{Volume: 4.0, Label: "Waste"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Boundaries mismatch (-want +got):\n%s", diff)
	}
}

func TestFractionLabelPerVariant(t *testing.T) {
	if got := FractionLabel(VariantSmall, 7); got != "T7" {
		t.Errorf("small label = %q, want T7", got)
	}
	if got := FractionLabel(VariantLarge, 7); got != "7" {
		t.Errorf("large label = %q, want 7", got)
	}
}

func TestFractionSpan(t *testing.T) {
	tr := sampleTrace()

	lo, hi, ok := tr.FractionSpan(VariantSmall, 1)
	if !ok || lo != 1.0 || hi != 3.0 {
		t.Errorf("FractionSpan(small, 1) = (%v, %v, %v), want (1, 3, true)", lo, hi, ok)
	}

	// Fraction 2 has no T3 boundary, so it has no right edge.
	if _, _, ok := tr.FractionSpan(VariantSmall, 2); ok {
		t.Error("FractionSpan(small, 2) should be absent")
	}

	// Large-variant labels don't match this small-instrument trace.
	if _, _, ok := tr.FractionSpan(VariantLarge, 1); ok {
		t.Error("FractionSpan(large, 1) should be absent")
	}
}
