package morphology

import (
	"math"

	"github.com/ecgcore/ecg-analyzer/internal/dsp"
)

const (
	tSearchStartS = 0.04
	tSearchEndS   = 0.45
	tSlopeSpanS   = 0.1
	qStartOffsetS = 0.03

	qtMinMs = 200.0
	qtMaxMs = 600.0

	qtcNormalMs    = 450.0
	qtcProlongedMs = 500.0
	qtcRiskFlagMs  = 470.0
)

// QTMetrics reports the QT/QTc statistics across all consecutive R-peak
// pairs that yielded a plausible T-wave tangent measurement.
type QTMetrics struct {
	MeanQTMs       float64
	QTc            float64
	RiskFlag       bool
	Interpretation string
}

// MeasureQT implements §4.5: locate each T-wave by its tangent at the
// steepest descent point and extrapolate it to baseline, then apply
// Bazett's correction using the mean RR interval. rejected, if non-nil, is
// incremented once per (r_i, r_{i+1}) pair that yields no usable QT
// measurement; a debugging diagnostic only.
func MeasureQT(cleaned []float64, rPeaks []int, fs float64, rejected *int) QTMetrics {
	n := len(cleaned)
	tStartOffset := int(math.Round(tSearchStartS * fs))
	tEndOffset := int(math.Round(tSearchEndS * fs))
	slopeSpan := int(math.Round(tSlopeSpanS * fs))
	qOffset := int(math.Round(qStartOffsetS * fs))

	bump := func() {
		if rejected != nil {
			*rejected++
		}
	}

	var qtList []float64
	for i := 0; i+1 < len(rPeaks); i++ {
		ri := rPeaks[i]

		tStart := ri + tStartOffset
		tEnd := ri + tEndOffset
		if tEnd > n || tStart >= tEnd {
			bump()
			continue
		}

		window := cleaned[tStart:tEnd]
		tPeak := tStart + dsp.ArgMax(window)

		slopeEnd := tPeak + slopeSpan
		if slopeEnd > n {
			slopeEnd = n
		}
		seg := cleaned[tPeak:slopeEnd]
		if len(seg) < 2 {
			bump()
			continue
		}
		diffs := dsp.Diff(seg)
		k := dsp.ArgMin(diffs)
		maxSlope := diffs[k]
		if maxSlope == 0 {
			bump()
			continue
		}

		tEndFrac := float64(tPeak+k) - cleaned[tPeak+k]/maxSlope
		qStart := float64(ri - qOffset)

		qtMs := (tEndFrac - qStart) * 1000 / fs
		if qtMs > qtMinMs && qtMs < qtMaxMs {
			qtList = append(qtList, qtMs)
		} else {
			bump()
		}
	}

	meanQT := 0.0
	if len(qtList) > 0 {
		meanQT = dsp.Mean(qtList)
	}

	meanRRSec := meanRRSeconds(rPeaks, fs)
	qtc := meanQT / math.Sqrt(meanRRSec)

	return QTMetrics{
		MeanQTMs:       meanQT,
		QTc:            qtc,
		RiskFlag:       qtc > qtcRiskFlagMs,
		Interpretation: qtInterpretation(qtc),
	}
}

func meanRRSeconds(rPeaks []int, fs float64) float64 {
	if len(rPeaks) < 2 {
		return 1.0
	}
	idx := make([]float64, len(rPeaks))
	for i, p := range rPeaks {
		idx[i] = float64(p)
	}
	rr := dsp.Diff(idx)
	for i := range rr {
		rr[i] /= fs
	}
	mean := dsp.Mean(rr)
	if mean == 0 {
		return 1.0
	}
	return mean
}

func qtInterpretation(qtc float64) string {
	switch {
	case qtc < qtcNormalMs:
		return "Normal"
	case qtc < qtcProlongedMs:
		return "Prolonged QTc"
	default:
		return "High Risk (Long QT)"
	}
}
