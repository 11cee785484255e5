// Package ecgcore implements the ECG analysis pipeline: preprocessing,
// Pan-Tompkins QRS detection, rhythm classification, waveform morphology
// measurement, heart-rate-variability statistics, and clinical
// interpretation, composed into a single synchronous entry point.
package ecgcore

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"

	"github.com/ecgcore/ecg-analyzer/detect"
	"github.com/ecgcore/ecg-analyzer/hrv"
	"github.com/ecgcore/ecg-analyzer/interpret"
	"github.com/ecgcore/ecg-analyzer/morphology"
	"github.com/ecgcore/ecg-analyzer/preprocess"
	"github.com/ecgcore/ecg-analyzer/rhythm"
)

// confidenceTrendDecay is the exponential-decay weight applied when folding
// a new confidence sample into Diagnostics.ConfidenceTrend.
const confidenceTrendDecay = 0.3

// Analyze runs the full pipeline on one lead: preprocess, detect, classify,
// measure, and interpret. It is stateless and safe to call concurrently
// from separate goroutines on disjoint inputs.
func Analyze(samples []float64, fs float64, opts Options) (AnalysisResult, error) {
	cleaned, filterMetrics, err := preprocess.Preprocess(samples, fs)
	if err != nil {
		kind := ErrBadConfig
		if errors.Is(err, preprocess.ErrInsufficientData) {
			kind = ErrInsufficientData
		}
		return AnalysisResult{}, fmt.Errorf("ecgcore: preprocess: %w: %w", kind, err)
	}

	rPeaks, detMetrics := detect.DetectRPeaks(cleaned, fs, opts.resolvedDetector())

	rhythmLabel, rhythmMetrics := rhythm.Classify(rPeaks, fs)

	var diag *Diagnostics
	var rejectedQRS, rejectedQT int
	qrsMetrics, qrsWarning := measureQRS(cleaned, rPeaks, fs, &rejectedQRS)
	qtMetrics, qtWarning := measureQT(cleaned, rPeaks, fs, &rejectedQT)
	hrvMetrics := hrv.Compute(rPeaks, fs)

	result := interpret.Apply(rhythmLabel, qrsMetrics, qtMetrics, hrvMetrics, detMetrics.AvgBPM)
	if qrsWarning != "" {
		result.Warnings = append(result.Warnings, qrsWarning)
	}
	if qtWarning != "" {
		result.Warnings = append(result.Warnings, qtWarning)
	}

	if opts.Verbose {
		trendSeed := filterMetrics.ConfidenceScore
		weight := float64(approx.FastExp(float32(-confidenceTrendDecay)))
		diag = &Diagnostics{
			PreprocessMetrics: filterMetrics,
			NotchResidualDB:   filterMetrics.PowerlineDB,
			RejectedQRSCount:  rejectedQRS,
			RejectedQTCount:   rejectedQT,
			ConfidenceTrend:   []float64{trendSeed * weight},
		}
	}

	out := AnalysisResult{
		CleanedSignal:     cleaned,
		RPeakIndices:      rPeaks,
		SampleRate:        fs,
		NumSamples:        len(samples),
		FilterMetrics:     filterMetrics,
		DetectionMetrics:  detMetrics,
		ArrhythmiaMetrics: rhythmMetrics,
		QRSMetrics:        qrsMetrics,
		QTMetrics:         qtMetrics,
		HRVMetrics:        hrvMetrics,
		RhythmStatus:      result.RhythmLabel,
		ClinicalWarnings:  result.Warnings,
		Warnings:          result.Warnings,
		Verbose:           diag,
	}
	return out, nil
}

// measureQRS guards the morphology stage against the NumericFailure class of
// error: a non-finite mean width is zeroed and reported as undetected rather
// than propagated, per the pipeline's non-fatal downstream-failure contract.
// The returned warning is non-empty exactly when the guard tripped, so it
// bubbles into clinical_warnings alongside the zeroed metric.
func measureQRS(cleaned []float64, rPeaks []int, fs float64, rejected *int) (morphology.QRSMetrics, string) {
	m := morphology.MeasureQRSWidth(cleaned, rPeaks, fs, rejected)
	if !math.IsInf(m.MeanQRSMs, 0) && !math.IsNaN(m.MeanQRSMs) {
		return m, ""
	}
	return morphology.QRSMetrics{MeanQRSMs: 0, StdQRSMs: 0, Interpretation: "Could not detect"}, "Could not detect QRS width"
}

func measureQT(cleaned []float64, rPeaks []int, fs float64, rejected *int) (morphology.QTMetrics, string) {
	m := morphology.MeasureQT(cleaned, rPeaks, fs, rejected)
	if !math.IsInf(m.QTc, 0) && !math.IsNaN(m.QTc) {
		return m, ""
	}
	return morphology.QTMetrics{Interpretation: "N/A"}, "QT measurement unavailable"
}
