package ecgcore

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/ecgcore/ecg-analyzer/detect"
)

// metronomeTemplate builds a clean synthetic ECG: Gaussian QRS bumps at a
// fixed period, used as the base signal for the scale and shift laws.
func metronomeTemplate(fs, seconds, periodS float64) []float64 {
	n := int(fs * seconds)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / fs
		phase := math.Mod(t, periodS) / periodS
		out[i] = math.Exp(-150 * (phase - 0.5) * (phase - 0.5))
	}
	return out
}

// TestScaleInvarianceOfRPeakIndices is the §8 law: multiplying the signal
// by any positive constant must not move a single detected R-peak, since
// both the adaptive threshold and the amplitude gate scale with the
// signal's own statistics.
func TestScaleInvarianceOfRPeakIndices(t *testing.T) {
	fs := 250.0
	base := metronomeTemplate(fs, 10, 1.0)

	rapid.Check(t, func(rt *rapid.T) {
		alpha := rapid.Float64Range(0.1, 50).Draw(rt, "alpha")

		scaled := make([]float64, len(base))
		for i, v := range base {
			scaled[i] = v * alpha
		}

		basePeaks, baseMetrics := detect.DetectRPeaks(base, fs, detect.DefaultConfig())
		scaledPeaks, scaledMetrics := detect.DetectRPeaks(scaled, fs, detect.DefaultConfig())

		if len(basePeaks) != len(scaledPeaks) {
			rt.Fatalf("peak count changed under scaling by %v: %d vs %d", alpha, len(basePeaks), len(scaledPeaks))
		}
		for i := range basePeaks {
			if basePeaks[i] != scaledPeaks[i] {
				rt.Fatalf("peak[%d] moved under scaling by %v: %d vs %d", i, alpha, basePeaks[i], scaledPeaks[i])
			}
		}
		if math.Abs(baseMetrics.AvgBPM-scaledMetrics.AvgBPM) > 1e-9 {
			rt.Fatalf("AvgBPM changed under scaling by %v: %v vs %v", alpha, baseMetrics.AvgBPM, scaledMetrics.AvgBPM)
		}
	})
}

// TestTimeShiftEquivarianceOfRPeakIndices is the §8 law: prepending k zero
// samples shifts every later R-peak index by exactly k, once k exceeds the
// detector's relocation window so boundary truncation doesn't interfere.
func TestTimeShiftEquivarianceOfRPeakIndices(t *testing.T) {
	fs := 250.0
	base := metronomeTemplate(fs, 10, 1.0)
	minShift := int(math.Round(detect.RelocateWindowS*fs)) + 1

	rapid.Check(t, func(rt *rapid.T) {
		k := rapid.IntRange(minShift, minShift+500).Draw(rt, "k")

		shifted := make([]float64, k+len(base))
		copy(shifted[k:], base)

		basePeaks, _ := detect.DetectRPeaks(base, fs, detect.DefaultConfig())
		shiftedPeaks, _ := detect.DetectRPeaks(shifted, fs, detect.DefaultConfig())

		if len(basePeaks) != len(shiftedPeaks) {
			rt.Fatalf("peak count changed under a %d-sample shift: %d vs %d", k, len(basePeaks), len(shiftedPeaks))
		}
		for i := range basePeaks {
			if shiftedPeaks[i] != basePeaks[i]+k {
				rt.Fatalf("peak[%d] not shifted by exactly k=%d: base=%d shifted=%d", i, k, basePeaks[i], shiftedPeaks[i])
			}
		}
	})
}
