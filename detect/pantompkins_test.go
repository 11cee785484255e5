package detect

import (
	"math"
	"testing"
)

func syntheticECG(fs, seconds, bpm float64) []float64 {
	n := int(fs * seconds)
	out := make([]float64, n)
	period := 60.0 / bpm
	for i := range out {
		t := float64(i) / fs
		phase := math.Mod(t, period) / period
		out[i] = math.Exp(-200 * (phase - 0.5) * (phase - 0.5))
	}
	return out
}

func TestDetectRPeaksFindsExpectedCount(t *testing.T) {
	fs := 250.0
	seconds := 20.0
	bpm := 60.0
	x := syntheticECG(fs, seconds, bpm)

	peaks, metrics := DetectRPeaks(x, fs, DefaultConfig())
	wantApprox := int(seconds * bpm / 60)
	if metrics.NumPeaks < wantApprox-2 || metrics.NumPeaks > wantApprox+2 {
		t.Fatalf("expected ~%d peaks, got %d", wantApprox, metrics.NumPeaks)
	}
	if len(peaks) != metrics.NumPeaks {
		t.Fatalf("peaks slice length %d does not match metrics.NumPeaks %d", len(peaks), metrics.NumPeaks)
	}
	if math.Abs(metrics.AvgBPM-bpm) > 5 {
		t.Fatalf("AvgBPM: got %v, want close to %v", metrics.AvgBPM, bpm)
	}
}

func TestDetectRPeaksEnforcesRefractoryPeriod(t *testing.T) {
	fs := 250.0
	x := syntheticECG(fs, 20, 180) // fast but physiologically plausible rate
	peaks, _ := DetectRPeaks(x, fs, DefaultConfig())
	refractorySamples := int(math.Round(RefractoryS * fs))
	for i := 1; i < len(peaks); i++ {
		if peaks[i]-peaks[i-1] < refractorySamples {
			t.Fatalf("peaks %d and %d are closer than the refractory period", peaks[i-1], peaks[i])
		}
	}
}

func TestDetectRPeaksNeverFailsOnDegenerateInput(t *testing.T) {
	peaks, metrics := DetectRPeaks(nil, 250, DefaultConfig())
	if peaks != nil || metrics.NumPeaks != 0 {
		t.Fatalf("expected empty result for nil input")
	}

	flat := make([]float64, 1000)
	peaks, metrics = DetectRPeaks(flat, 250, DefaultConfig())
	if len(peaks) != 0 {
		t.Fatalf("expected no peaks on a flat-line signal, got %d", len(peaks))
	}
	_ = metrics
}
