// Package hrv computes time-domain heart-rate-variability statistics from
// R-peak indices after an ectopic-beat filter removes implausible RR
// intervals.
package hrv

import (
	"math"

	"github.com/ecgcore/ecg-analyzer/internal/dsp"
)

const (
	ectopicMinMs = 300.0
	ectopicMaxMs = 1500.0
	pnn50GapMs   = 50.0

	sdnnLowMs  = 20.0
	sdnnHighMs = 100.0
)

// Metrics reports the standard time-domain HRV bundle.
type Metrics struct {
	SDNNMs         float64
	RMSSDMs        float64
	SDSDMs         float64
	PNN50          float64
	MeanNNMs       float64
	CVPercent      float64
	NNCount        int
	EctopicRemoved int
	Interpretation string
}

// Compute implements §4.6. Fewer than 3 R-peaks yields a zeroed result
// labeled "Insufficient data"; fewer than 2 surviving NN intervals after
// the ectopic filter yields a zeroed result labeled for unstable RR.
func Compute(rPeaks []int, fs float64) Metrics {
	if len(rPeaks) < 3 {
		return Metrics{Interpretation: "Insufficient data"}
	}

	idx := make([]float64, len(rPeaks))
	for i, p := range rPeaks {
		idx[i] = float64(p)
	}
	rrMs := dsp.Diff(idx)
	for i := range rrMs {
		rrMs[i] = rrMs[i] * 1000 / fs
	}

	var nn []float64
	for _, v := range rrMs {
		if v > ectopicMinMs && v < ectopicMaxMs {
			nn = append(nn, v)
		}
	}

	if len(nn) < 2 {
		return Metrics{Interpretation: "High noise level - unstable RR"}
	}

	sdnn := dsp.SampleStdDev(nn)
	diffNN := dsp.Diff(nn)

	sumSq := 0.0
	gapCount := 0
	for _, d := range diffNN {
		sumSq += d * d
		if math.Abs(d) > pnn50GapMs {
			gapCount++
		}
	}
	rmssd := math.Sqrt(sumSq / float64(len(diffNN)))
	sdsd := dsp.StdDev(diffNN)
	pnn50 := 100 * float64(gapCount) / float64(len(diffNN))

	meanNN := dsp.Mean(nn)
	cv := 0.0
	if meanNN != 0 {
		cv = 100 * sdnn / meanNN
	}

	return Metrics{
		SDNNMs:         sdnn,
		RMSSDMs:        rmssd,
		SDSDMs:         sdsd,
		PNN50:          pnn50,
		MeanNNMs:       meanNN,
		CVPercent:      cv,
		NNCount:        len(nn),
		EctopicRemoved: len(rrMs) - len(nn),
		Interpretation: interpretation(sdnn),
	}
}

func interpretation(sdnn float64) string {
	switch {
	case sdnn < sdnnLowMs:
		return "Low HRV (Reduced variability)"
	case sdnn < sdnnHighMs:
		return "Normal range for short-term recording"
	default:
		return "High Variability"
	}
}
