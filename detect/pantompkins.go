// Package detect implements the Pan-Tompkins QRS detector: a bandpass ->
// derivative -> square -> integrate cascade feeding a single adaptive
// threshold that tracks signal and noise peak populations.
package detect

import (
	"math"

	"github.com/ecgcore/ecg-analyzer/internal/dsp"
)

const (
	QRSBandLowHz  = 5.0
	QRSBandHighHz = 15.0
	QRSBandOrder  = 2

	IntegrationWindowS = 0.120
	RefractoryS        = 0.2
	RelocateWindowS    = 0.08
	AmplitudeGateRatio = 0.5

	thresholdRunLen = 8
)

// Config exposes the detector's two calibratable constants (everything
// else in the cascade is a fixed stage parameter). cmd/ecg-tune searches
// this space against an annotated reference; DefaultConfig reproduces the
// package's built-in behavior exactly.
type Config struct {
	ThresholdPercentile float64 // initial threshold = ThresholdScale * percentile(integrated, ThresholdPercentile)
	ThresholdBlend      float64 // adaptive blend weight between noise and signal running means
}

// ThresholdScale is fixed by the algorithm, not a calibration knob.
const ThresholdScale = 0.6

// DefaultConfig returns the detector's specified default constants.
func DefaultConfig() Config {
	return Config{
		ThresholdPercentile: 98,
		ThresholdBlend:      0.40,
	}
}

// Metrics summarizes the accepted R-peaks.
type Metrics struct {
	NumPeaks       int
	AvgBPM         float64
	AvgRRSec       float64
	RRStdSec       float64
	FinalThreshold float64
}

// DetectRPeaks never fails: an unusable or empty input yields an empty peak
// set and zeroed metrics, per §4.2's contract.
func DetectRPeaks(cleaned []float64, fs float64, cfg Config) ([]int, Metrics) {
	n := len(cleaned)
	if n < 5 || fs <= 0 {
		return nil, Metrics{}
	}

	band := qrsBandFilter(cleaned, fs)
	derivative := fivePointDerivative(band, fs)
	squared := make([]float64, n)
	for i, v := range derivative {
		squared[i] = v * v
	}

	kernelLen := int(math.Round(IntegrationWindowS * fs))
	if kernelLen < 1 {
		kernelLen = 1
	}
	integrated := dsp.Convolve(squared, kernelLen)

	refractory := int(math.Round(RefractoryS * fs))
	relocateWindow := int(math.Round(RelocateWindowS * fs))
	globalStd := dsp.StdDev(cleaned)
	amplitudeFloor := AmplitudeGateRatio * globalStd

	threshold := cfg.ThresholdPercentile
	initialThreshold := ThresholdScale * dsp.Percentile(integrated, threshold)
	current := initialThreshold

	var rPeaks []int
	var signalPeakVals, noisePeakVals []float64
	lastCandidateIdx := -1

	for i := 1; i < n-1; i++ {
		if !(integrated[i] > integrated[i-1] && integrated[i] > integrated[i+1]) {
			continue // not a strict local maximum
		}

		aboveThreshold := integrated[i] > current
		refractoryOK := lastCandidateIdx < 0 || i-lastCandidateIdx > refractory
		if !aboveThreshold {
			noisePeakVals = append(noisePeakVals, integrated[i])
			continue
		}
		if !refractoryOK {
			continue
		}

		lo := max0(i - relocateWindow)
		hi := minN(i+relocateWindow, n)
		actual := lo + dsp.ArgMax(cleaned[lo:hi])

		if cleaned[actual] <= amplitudeFloor {
			continue // amplitude gate rejected the candidate
		}

		rPeaks = append(rPeaks, actual)
		signalPeakVals = append(signalPeakVals, integrated[i])

		sMean := meanLastN(signalPeakVals, thresholdRunLen)
		nMean := meanLastN(noisePeakVals, thresholdRunLen)
		current = nMean + cfg.ThresholdBlend*(sMean-nMean)

		lastCandidateIdx = i
		i += refractory
	}

	metrics := computeMetrics(rPeaks, fs, current)
	return rPeaks, metrics
}

func qrsBandFilter(cleaned []float64, fs float64) []float64 {
	band, err := dsp.DesignButterworthBandpass(QRSBandLowHz, QRSBandHighHz, fs, QRSBandOrder)
	if err != nil {
		// The detector never fails; if the QRS band is unusable at this
		// sample rate, fall back to operating directly on the cleaned
		// signal rather than aborting.
		out := make([]float64, len(cleaned))
		copy(out, cleaned)
		return out
	}
	return band.Filtfilt(cleaned)
}

func fivePointDerivative(x []float64, fs float64) []float64 {
	n := len(x)
	d := make([]float64, n)
	scale := fs / 8
	for i := 2; i < n-2; i++ {
		d[i] = (-x[i-2] - 2*x[i-1] + 2*x[i+1] + x[i+2]) * scale
	}
	return d
}

func meanLastN(x []float64, n int) float64 {
	if len(x) == 0 {
		return 0
	}
	start := len(x) - n
	if start < 0 {
		start = 0
	}
	return dsp.Mean(x[start:])
}

func computeMetrics(rPeaks []int, fs float64, finalThreshold float64) Metrics {
	m := Metrics{NumPeaks: len(rPeaks), FinalThreshold: finalThreshold}
	if len(rPeaks) < 2 {
		return m
	}
	idx := make([]float64, len(rPeaks))
	for i, p := range rPeaks {
		idx[i] = float64(p)
	}
	rr := dsp.Diff(idx)
	for i := range rr {
		rr[i] /= fs
	}
	meanRR := dsp.Mean(rr)
	m.AvgRRSec = meanRR
	m.RRStdSec = dsp.StdDev(rr)
	if meanRR > 0 {
		m.AvgBPM = 60 / meanRR
	}
	return m
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func minN(v, n int) int {
	if v > n {
		return n
	}
	return v
}
