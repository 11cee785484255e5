// Package dsp holds the numeric primitives shared by every pipeline stage:
// biquad sections, cascade/filtfilt application, moving-average and
// percentile/statistics helpers. None of it is specific to ECG semantics;
// it is the "shared math utilities" layer the pipeline is built on top of.
package dsp

// Biquad implements a second-order IIR filter section in Direct Form I.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewBiquad creates a biquad section with the given transfer-function
// coefficients (a0 is assumed normalized to 1).
func NewBiquad(b0, b1, b2, a1, a2 float64) Biquad {
	return Biquad{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
}

// Process runs one sample through the section.
func (b *Biquad) Process(input float64) float64 {
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears filter state.
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// Cascade is an ordered chain of biquad sections forming a higher-order
// filter (e.g. two sections == 4th order).
type Cascade []Biquad

// Reset clears state in every section.
func (c Cascade) Reset() {
	for i := range c {
		c[i].Reset()
	}
}

// Process runs one sample through every section in series.
func (c Cascade) Process(input float64) float64 {
	out := input
	for i := range c {
		out = c[i].Process(out)
	}
	return out
}

// ProcessBuffer filters an entire buffer causally (single pass) and returns
// a new slice; filter state is NOT reset before running.
func (c Cascade) ProcessBuffer(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = c.Process(v)
	}
	return y
}

// Filtfilt applies the cascade forward then backward to cancel phase
// distortion, with odd (reflected) edge extension of length 3*order per
// side to stabilize the filter's transient response, where order is the
// number of biquad sections times two.
func (c Cascade) Filtfilt(x []float64) []float64 {
	order := len(c) * 2
	pad := 3 * order
	if pad > len(x)-1 {
		pad = len(x) - 1
	}
	if pad < 0 {
		pad = 0
	}

	ext := reflectPad(x, pad)

	c.Reset()
	fwd := c.ProcessBuffer(ext)

	reverseInPlace(fwd)
	c.Reset()
	bwd := c.ProcessBuffer(fwd)
	reverseInPlace(bwd)

	return bwd[pad : len(bwd)-pad]
}

// reflectPad extends x by `pad` samples on each side using odd reflection
// about the boundary value, the standard edge handling for zero-phase
// filtfilt application.
func reflectPad(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)

	for i := 0; i < pad; i++ {
		out[i] = 2*x[0] - x[pad-i]
	}
	copy(out[pad:pad+n], x)
	for i := 0; i < pad; i++ {
		out[pad+n+i] = 2*x[n-1] - x[n-2-i]
	}
	return out
}

func reverseInPlace(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
