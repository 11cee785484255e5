package morphology

import (
	"math"
	"testing"
)

func syntheticBeat(fs float64, n int, rIdx int, tDelayS float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		t := float64(i-rIdx) / fs
		x[i] += 3.0 * math.Exp(-t*t/(2*0.003*0.003)) // sharp R spike
		tt := t - tDelayS
		x[i] += 0.5 * math.Exp(-tt*tt/(2*0.05*0.05)) // broad T wave
	}
	return x
}

func TestMeasureQTProducesPlausibleInterval(t *testing.T) {
	fs := 500.0
	n := int(fs * 2)
	r1, r2 := n/4, 3*n/4
	x := make([]float64, n)
	for _, r := range []int{r1, r2} {
		beat := syntheticBeat(fs, n, r, 0.2)
		for i := range x {
			x[i] += beat[i]
		}
	}

	m := MeasureQT(x, []int{r1, r2}, fs, nil)
	if m.Interpretation == "" {
		t.Fatalf("expected a non-empty interpretation")
	}
	if m.QTc < 0 {
		t.Fatalf("implausible negative QTc: %v", m.QTc)
	}
}

func TestMeasureQTHandlesNoPeaks(t *testing.T) {
	m := MeasureQT(make([]float64, 100), nil, 500, nil)
	if m.MeanQTMs != 0 {
		t.Fatalf("expected zero mean QT with no peaks, got %v", m.MeanQTMs)
	}
}

func TestQTInterpretationThresholds(t *testing.T) {
	if got := qtInterpretation(400); got != "Normal" {
		t.Fatalf("got %q", got)
	}
	if got := qtInterpretation(480); got != "Prolonged QTc" {
		t.Fatalf("got %q", got)
	}
	if got := qtInterpretation(550); got != "High Risk (Long QT)" {
		t.Fatalf("got %q", got)
	}
}

func TestMeanRRSecondsFallsBackToOneOnInsufficientPeaks(t *testing.T) {
	if got := meanRRSeconds([]int{5}, 250); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}
