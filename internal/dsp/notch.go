package dsp

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// NotchFilter wraps algo-dsp's filter/design + filter/biquad packages for
// the powerline notch stage: the same RBJ audio-EQ-cookbook biquad family
// algo-dsp exposes for its Highpass/HighShelf designs, here used for Notch.
// It is applied zero-phase via the same forward/backward/reflect scheme as
// Cascade.Filtfilt, which its Filtfilt method reimplements against
// biquad.Section's sample-at-a-time API rather than this package's own
// Biquad (algo-dsp's Coefficients type is opaque from here, so there is no
// way to lift its b0/b1/b2/a1/a2 into a local Cascade; Filtfilt is
// duplicated against biquad.Section instead).
type NotchFilter struct {
	section *biquad.Section
}

// DesignNotch designs a 2nd-order IIR notch filter at `freq` Hz with quality
// factor `q`, via algo-dsp's filter/design package.
func DesignNotch(freq, fs, q float64) (NotchFilter, error) {
	if fs <= 1 {
		return NotchFilter{}, errBadFs
	}
	nyq := fs / 2
	if !(freq > 0 && freq < nyq) || q <= 0 {
		return NotchFilter{}, errBadCutoffs
	}

	coeffs := design.Notch(freq, q, fs)
	return NotchFilter{section: biquad.NewSection(coeffs)}, nil
}

// Filtfilt applies the notch forward then backward to cancel phase
// distortion, with the same odd-reflection edge padding
// Cascade.Filtfilt uses (order 2, so a 6-sample pad per side).
func (n NotchFilter) Filtfilt(x []float64) []float64 {
	const order = 2
	pad := 3 * order
	if pad > len(x)-1 {
		pad = len(x) - 1
	}
	if pad < 0 {
		pad = 0
	}

	ext := reflectPad(x, pad)

	n.section.Reset()
	fwd := make([]float64, len(ext))
	for i, v := range ext {
		fwd[i] = n.section.ProcessSample(v)
	}

	reverseInPlace(fwd)
	n.section.Reset()
	bwd := make([]float64, len(fwd))
	for i, v := range fwd {
		bwd[i] = n.section.ProcessSample(v)
	}
	reverseInPlace(bwd)

	return bwd[pad : len(bwd)-pad]
}
