package ecgcore

import (
	"github.com/ecgcore/ecg-analyzer/detect"
	"github.com/ecgcore/ecg-analyzer/hrv"
	"github.com/ecgcore/ecg-analyzer/morphology"
	"github.com/ecgcore/ecg-analyzer/preprocess"
	"github.com/ecgcore/ecg-analyzer/rhythm"
)

// Options configures a single Analyze call. The zero value runs the
// pipeline with every stage's package-level defaults.
type Options struct {
	// Verbose requests a populated Diagnostics in the result.
	Verbose bool

	// Detector overrides the QRS detector's two calibratable constants.
	// The zero value of detect.Config is invalid (zero percentile, zero
	// blend); a zero Options.Detector is treated as "use the default",
	// never as "use zero".
	Detector detect.Config
}

// resolvedDetector returns the detector configuration the user asked for,
// falling back to detect.DefaultConfig when Options.Detector was left at
// its zero value.
func (o Options) resolvedDetector() detect.Config {
	if o.Detector == (detect.Config{}) {
		return detect.DefaultConfig()
	}
	return o.Detector
}

// Diagnostics carries per-stage intermediate scalars of interest only when
// debugging or tuning; no invariant in the package depends on it. Populated
// only when Options.Verbose is set.
type Diagnostics struct {
	PreprocessMetrics preprocess.Metrics
	NotchResidualDB   float64
	RejectedQRSCount  int
	RejectedQTCount   int

	// ConfidenceTrend holds PreprocessMetrics.ConfidenceScore weighted by
	// the exponential-decay factor exp(-confidenceTrendDecay). Analyze keeps
	// no state between calls, so the series always has exactly one element.
	ConfidenceTrend []float64
}

// AnalysisResult is the flat, no-enrichment result bundle produced by
// Analyze.
type AnalysisResult struct {
	CleanedSignal []float64
	RPeakIndices  []int
	SampleRate    float64
	NumSamples    int

	FilterMetrics      preprocess.Metrics
	DetectionMetrics   detect.Metrics
	ArrhythmiaMetrics  rhythm.Metrics
	QRSMetrics         morphology.QRSMetrics
	QTMetrics          morphology.QTMetrics
	HRVMetrics         hrv.Metrics

	RhythmStatus     string
	ClinicalWarnings []string

	// Warnings aliases ClinicalWarnings for callers that prefer the
	// shorter name; both fields always hold the same slice.
	Warnings []string

	// Verbose is nil unless Options.Verbose was set.
	Verbose *Diagnostics
}
