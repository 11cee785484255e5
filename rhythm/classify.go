// Package rhythm labels a rhythm from R-peak timing using a hierarchical
// rule: severe irregularity dominates rate tier, which in turn can be
// downgraded to a borderline-irregularity label.
package rhythm

import "github.com/ecgcore/ecg-analyzer/internal/dsp"

const (
	InsufficientData       = "Insufficient data"
	FlaggedIrregular       = "Flagged: Irregular Rhythm"
	Bradycardia            = "Bradycardia"
	Tachycardia            = "Tachycardia"
	NormalSinusRhythm      = "Normal Sinus Rhythm"
	BorderlineIrregularity = "Borderline: Mild Irregularity"

	irregularCV   = 0.15
	borderlineCV  = 0.08
	bradyRateBPM  = 60.0
	tachyRateBPM  = 100.0
)

// Metrics reports the RR-interval statistics the label was derived from.
type Metrics struct {
	CV        float64
	MeanHR    float64
	MeanRRMs  float64
	StdRRMs   float64
}

// Classify returns the rhythm label and its supporting metrics.
func Classify(rPeaks []int, fs float64) (string, Metrics) {
	if len(rPeaks) < 3 || fs <= 0 {
		return InsufficientData, Metrics{}
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
	stdRR := dsp.StdDev(rr)
	cv := 0.0
	if meanRR > 0 {
		cv = stdRR / meanRR
	}

	hrSamples := make([]float64, len(rr))
	for i, v := range rr {
		if v > 0 {
			hrSamples[i] = 60 / v
		}
	}
	meanHR := dsp.Mean(hrSamples)

	metrics := Metrics{
		CV:       cv,
		MeanHR:   meanHR,
		MeanRRMs: meanRR * 1000,
		StdRRMs:  stdRR * 1000,
	}

	if cv >= irregularCV {
		return FlaggedIrregular, metrics
	}

	var label string
	switch {
	case meanHR < bradyRateBPM:
		label = Bradycardia
	case meanHR > tachyRateBPM:
		label = Tachycardia
	default:
		label = NormalSinusRhythm
	}

	if label == NormalSinusRhythm && cv >= borderlineCV {
		label = BorderlineIrregularity
	}
	return label, metrics
}
