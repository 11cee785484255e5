// Package preprocess removes drift, powerline interference and baseline
// wander from a raw ECG voltage sequence and reports a signal-quality
// estimate, per the bandpass -> notch -> baseline-wander-removal -> SNR
// cascade.
package preprocess

import (
	"errors"
	"fmt"
	"math"

	"github.com/ecgcore/ecg-analyzer/internal/dsp"
)

// Filter design constants. These are the pipeline's fixed stage parameters,
// not knobs a caller overrides (the detector's constants, in contrast, are
// configurable — see the detect package).
const (
	BandpassLowHz   = 0.5
	BandpassHighHz  = 40.0
	BandpassOrder   = 4
	NotchFreqHz     = 60.0
	NotchQ          = 30.0
	BaselineWindowS = 0.2
)

// ErrInsufficientData and ErrBadConfig mirror ecgcore's sentinels; this
// package is imported by ecgcore but must not import it back, so the
// sentinels are declared locally. ecgcore.Analyze wraps a preprocess error
// together with its own matching sentinel, so errors.Is matches either.
var (
	ErrInsufficientData = errors.New("preprocess: insufficient data")
	ErrBadConfig        = errors.New("preprocess: bad configuration")
)

// Metrics reports the signal-quality bundle produced alongside the cleaned
// signal.
type Metrics struct {
	SNRDB           float64
	ConfidenceScore float64
	SignalStd       float64

	// PowerlineDB and Window are additive diagnostics (SPEC_FULL §3): the
	// residual 60 Hz content after notching, and the sample range it was
	// measured over. Zero value means the diagnostic could not be computed
	// (e.g. signal too short for a usable FFT window) and is purely
	// informational.
	PowerlineDB float64
	Window      [2]int
}

// Preprocess runs the bandpass/notch/baseline-removal/SNR cascade. It is a
// pure, length-preserving function.
func Preprocess(samples []float64, fs float64) ([]float64, Metrics, error) {
	windowSamples := int(math.Round(BaselineWindowS * fs))
	if windowSamples < 1 {
		windowSamples = 1
	}
	minLen := BandpassOrder * 3
	if windowSamples+1 > minLen {
		minLen = windowSamples + 1
	}
	if len(samples) < minLen {
		return nil, Metrics{}, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, minLen, len(samples))
	}
	if err := validateConfig(samples, fs); err != nil {
		return nil, Metrics{}, err
	}

	bandpass, err := dsp.DesignButterworthBandpass(BandpassLowHz, BandpassHighHz, fs, BandpassOrder)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	stage1 := bandpass.Filtfilt(samples)

	notch, err := dsp.DesignNotch(NotchFreqHz, fs, NotchQ)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	stage2 := notch.Filtfilt(stage1)

	baseline := dsp.MovingAverage(stage2, windowSamples)
	cleaned := make([]float64, len(stage2))
	for i := range cleaned {
		cleaned[i] = stage2[i] - baseline[i]
	}

	metrics := computeMetrics(samples, cleaned, fs)
	return cleaned, metrics, nil
}

func validateConfig(samples []float64, fs float64) error {
	if fs <= 1 {
		return fmt.Errorf("%w: sample rate must be > 1 Hz, got %v", ErrBadConfig, fs)
	}
	if !dsp.AllFinite(samples) {
		return fmt.Errorf("%w: input contains NaN or Inf", ErrBadConfig)
	}
	nyq := fs / 2
	for _, cutoff := range []float64{BandpassLowHz, BandpassHighHz, NotchFreqHz} {
		norm := cutoff / nyq
		if !(norm > 0 && norm < 1) {
			return fmt.Errorf("%w: cutoff %.2f Hz is not within (0, Nyquist) at fs=%.2f", ErrBadConfig, cutoff, fs)
		}
	}
	return nil
}

func computeMetrics(raw, cleaned []float64, fs float64) Metrics {
	noise := make([]float64, len(raw))
	for i := range raw {
		noise[i] = raw[i] - cleaned[i]
	}

	varSignal := dsp.Variance(cleaned)
	varNoise := dsp.Variance(noise)

	var snrDB float64
	if varNoise == 0 {
		snrDB = 100
	} else {
		snrDB = 10 * math.Log10(varSignal/varNoise)
	}
	confidence := dsp.Clamp((snrDB-5)*5, 0, 100)

	m := Metrics{
		SNRDB:           snrDB,
		ConfidenceScore: confidence,
		SignalStd:       dsp.StdDev(cleaned),
	}

	start, end := 0, len(cleaned)
	if end-start >= 8 {
		if db, err := dsp.BinMagnitudeDB(cleaned[start:end], NotchFreqHz, fs); err == nil {
			m.PowerlineDB = db
			m.Window = [2]int{start, end}
		}
	}
	return m
}
