package dsp

import (
	"math"
	"math/cmplx"
)

// DesignButterworthBandpass designs a digital Butterworth bandpass filter of
// prototype order `order` (order must be even; both call sites in this
// module use 2 and 4) with cutoffs `low`/`high` in Hz against sampling rate
// `fs`, returning it as a cascade of `order` biquad sections. The design
// follows the classic analog-prototype -> lp2bp -> bilinear-transform route
// (pole placement, frequency-warped substitution, bilinear mapping), the
// same route SciPy's butter()/lp2bp_zpk()/bilinear_zpk() take.
func DesignButterworthBandpass(low, high, fs float64, order int) (Cascade, error) {
	if order < 2 || order%2 != 0 {
		return nil, errBadOrder
	}
	if fs <= 1 {
		return nil, errBadFs
	}
	nyq := fs / 2
	if !(low > 0 && low < nyq && high > 0 && high < nyq && low < high) {
		return nil, errBadCutoffs
	}

	warpedLow := 2 * fs * math.Tan(math.Pi*low/fs)
	warpedHigh := 2 * fs * math.Tan(math.Pi*high/fs)
	w0 := math.Sqrt(warpedLow * warpedHigh)
	bw := warpedHigh - warpedLow

	protoPoles := butterworthPrototypePoles(order)

	// lp2bp: scale prototype poles by bw/2 and solve the bandpass
	// substitution quadratic for each, doubling the pole count; the
	// lowpass prototype's zeros-at-infinity become `order` zeros at s=0.
	bpPoles := make([]complex128, 0, 2*order)
	for _, p := range protoPoles {
		pLP := p * complex(bw/2, 0)
		disc := cmplx.Sqrt(pLP*pLP - complex(w0*w0, 0))
		bpPoles = append(bpPoles, pLP+disc, pLP-disc)
	}
	gain := math.Pow(bw, float64(order))

	fs2 := complex(2*fs, 0)
	digitalPoles := make([]complex128, len(bpPoles))
	denomProd := complex(1, 0)
	for i, p := range bpPoles {
		digitalPoles[i] = (fs2 + p) / (fs2 - p)
		denomProd *= (fs2 - p)
	}
	// `order` analog zeros at s=0 map to z=1; the lp2bp->bilinear degree
	// gap (2*order poles vs order zeros) contributes `order` more zeros
	// at z=-1, giving a balanced 2*order/2*order digital system.
	numerProd := cmplx.Pow(fs2, complex(float64(order), 0))
	k := gain * real(numerProd/denomProd)

	pairs := pairConjugates(digitalPoles)
	sections := make(Cascade, 0, len(pairs))
	for i, pr := range pairs {
		p1, p2 := pr[0], pr[1]
		a1 := -real(p1 + p2)
		a2 := real(p1 * p2)

		b0, b1, b2 := 1.0, 0.0, -1.0 // (1 - z^-1)(1 + z^-1) = 1 - z^-2
		if i == 0 {
			b0 *= k
			b1 *= k
			b2 *= k
		}
		sections = append(sections, NewBiquad(b0, b1, b2, a1, a2))
	}
	return sections, nil
}

// butterworthPrototypePoles returns the `order` analog Butterworth lowpass
// prototype poles (unit cutoff, left half-plane).
func butterworthPrototypePoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi*(2*float64(k)+1)/(2*float64(order)) + math.Pi/2
		poles[k] = complex(math.Cos(theta), math.Sin(theta))
	}
	return poles
}

// pairConjugates groups a conjugate-closed set of complex numbers into
// pairs, matching each element with its nearest remaining conjugate.
func pairConjugates(vals []complex128) [][2]complex128 {
	remaining := append([]complex128(nil), vals...)
	pairs := make([][2]complex128, 0, len(vals)/2)

	for len(remaining) > 0 {
		p := remaining[0]
		remaining = remaining[1:]

		target := cmplx.Conj(p)
		bestIdx, bestDist := 0, math.Inf(1)
		for i, q := range remaining {
			if d := cmplx.Abs(q - target); d < bestDist {
				bestDist, bestIdx = d, i
			}
		}
		partner := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		pairs = append(pairs, [2]complex128{p, partner})
	}
	return pairs
}
