// Package interpret merges the per-stage metrics into a final rhythm label
// and an ordered list of clinical warnings.
package interpret

import (
	"github.com/ecgcore/ecg-analyzer/hrv"
	"github.com/ecgcore/ecg-analyzer/morphology"
)

const (
	wideQRSThresholdMs = 120.0
	tachyThresholdBPM  = 100.0
	lowHRVFloorMs      = 0.0
	lowHRVCeilingMs    = 50.0

	WideComplexTachycardia = "Wide-Complex Tachycardia - URGENT EVALUATION"
)

// Result is the merged clinical verdict: the final rhythm label (possibly
// an override of the input label) plus the ordered warnings accumulated
// along the way.
type Result struct {
	RhythmLabel string
	Warnings    []string
}

// Apply implements §4.7's three ordered rules.
func Apply(rhythmLabel string, qrs morphology.QRSMetrics, qt morphology.QTMetrics, hrvMetrics hrv.Metrics, avgBPM float64) Result {
	label := rhythmLabel
	var warnings []string

	switch {
	case qrs.MeanQRSMs > wideQRSThresholdMs && avgBPM > tachyThresholdBPM:
		label = WideComplexTachycardia
		warnings = append(warnings, "Wide QRS with tachycardia requires immediate assessment")
	case qrs.MeanQRSMs > wideQRSThresholdMs:
		warnings = append(warnings, qrs.Interpretation)
	}

	if qt.RiskFlag {
		warnings = append(warnings, qt.Interpretation)
	}

	if hrvMetrics.SDNNMs > lowHRVFloorMs && hrvMetrics.SDNNMs < lowHRVCeilingMs {
		warnings = append(warnings, "Low HRV detected - consider cardiac risk assessment")
	}

	return Result{RhythmLabel: label, Warnings: warnings}
}
