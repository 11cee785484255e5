package dsp

import (
	"math"
	"testing"
)

func TestMeanAndStdDev(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(x); math.Abs(got-5) > 1e-9 {
		t.Fatalf("Mean: got %v, want 5", got)
	}
	if got := StdDev(x); math.Abs(got-2) > 1e-9 {
		t.Fatalf("StdDev (population): got %v, want 2", got)
	}
}

func TestSampleStdDevUsesBesselCorrection(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	pop := StdDev(x)
	sample := SampleStdDev(x)
	if sample <= pop {
		t.Fatalf("expected Bessel-corrected std (%v) > population std (%v)", sample, pop)
	}
}

func TestAllFiniteRejectsNaNAndInf(t *testing.T) {
	if !AllFinite([]float64{1, 2, 3}) {
		t.Fatalf("expected all-finite slice to pass")
	}
	if AllFinite([]float64{1, math.NaN(), 3}) {
		t.Fatalf("expected NaN to fail AllFinite")
	}
	if AllFinite([]float64{1, math.Inf(1), 3}) {
		t.Fatalf("expected +Inf to fail AllFinite")
	}
	if !AllFinite(nil) {
		t.Fatalf("expected empty slice to vacuously pass")
	}
}

func TestPercentileInterpolates(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	if got := Percentile(x, 50); math.Abs(got-3) > 1e-9 {
		t.Fatalf("median: got %v, want 3", got)
	}
	if got := Percentile(x, 0); got != 1 {
		t.Fatalf("p0: got %v, want 1", got)
	}
	if got := Percentile(x, 100); got != 5 {
		t.Fatalf("p100: got %v, want 5", got)
	}
}

func TestDiff(t *testing.T) {
	x := []float64{1, 3, 6, 10}
	got := Diff(x)
	want := []float64{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Diff[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArgMaxArgMinTieBreaksToLowestIndex(t *testing.T) {
	x := []float64{3, 5, 5, 1}
	if got := ArgMax(x); got != 1 {
		t.Fatalf("ArgMax: got %d, want 1", got)
	}
	y := []float64{3, -2, -2, 1}
	if got := ArgMin(y); got != 1 {
		t.Fatalf("ArgMin: got %d, want 1", got)
	}
}

func TestMovingAveragePreservesLength(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i)
	}
	out := MovingAverage(x, 5)
	if len(out) != len(x) {
		t.Fatalf("MovingAverage changed length: got %d, want %d", len(out), len(x))
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Fatalf("Clamp in-range: got %v", got)
	}
	if got := Clamp(-5, 0, 10); got != 0 {
		t.Fatalf("Clamp below: got %v", got)
	}
	if got := Clamp(15, 0, 10); got != 10 {
		t.Fatalf("Clamp above: got %v", got)
	}
}
