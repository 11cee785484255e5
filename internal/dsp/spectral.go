package dsp

import (
	"errors"
	"math"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

// fftPlanCache caches FFT plans by transform length: a package-level
// sync.Map keyed by N, safe for concurrent callers since a plan holds no
// signal data.
var fftPlanCache sync.Map // map[int]*fftPlan

type fftPlan struct {
	mu   sync.Mutex
	fast *algofft.FastPlanReal64
	safe *algofft.PlanRealT[float64, complex128]
}

func getFFTPlan(n int) (*fftPlan, error) {
	if v, ok := fftPlanCache.Load(n); ok {
		return v.(*fftPlan), nil
	}

	p := &fftPlan{}
	fast, err := algofft.NewFastPlanReal64(n)
	if err == nil {
		p.fast = fast
	} else if !errors.Is(err, algofft.ErrNotImplemented) {
		// Ignore fast-plan setup errors and rely on the safe plan.
	}

	safe, err := algofft.NewPlanReal64(n)
	if err != nil {
		if p.fast == nil {
			return nil, err
		}
	} else {
		p.safe = safe
	}

	actual, _ := fftPlanCache.LoadOrStore(n, p)
	return actual.(*fftPlan), nil
}

func (p *fftPlan) forward(dst []complex128, src []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fast != nil {
		p.fast.Forward(dst, src)
		return nil
	}
	if p.safe != nil {
		return p.safe.Forward(dst, src)
	}
	return errors.New("dsp: missing FFT plan")
}

// BinMagnitudeDB returns the magnitude, in dB relative to the mean spectral
// bin magnitude, of the FFT bin nearest `freq` Hz over window `x` sampled at
// `fs`. It is a QA diagnostic, not a frequency-domain analysis of RR timing.
// If no FFT plan can be used, a direct single-frequency DFT at `freq` is
// computed instead and its magnitude is reported in dB relative to 1, not
// to the mean bin magnitude.
func BinMagnitudeDB(x []float64, freq, fs float64) (float64, error) {
	n := len(x)
	if n < 8 {
		return 0, errors.New("dsp: window too short for spectral diagnostic")
	}

	plan, err := getFFTPlan(n)
	if err != nil {
		return dftBinMagnitudeDBFallback(x, freq, fs), nil
	}

	spec := make([]complex128, n/2+1)
	if err := plan.forward(spec, x); err != nil {
		return dftBinMagnitudeDBFallback(x, freq, fs), nil
	}

	bin := int(math.Round(freq * float64(n) / fs))
	if bin < 0 {
		bin = 0
	}
	if bin >= len(spec) {
		bin = len(spec) - 1
	}

	target := cabs(spec[bin])
	var meanMag float64
	for _, c := range spec {
		meanMag += cabs(c)
	}
	meanMag /= float64(len(spec))

	return linToDB(target, meanMag), nil
}

func dftBinMagnitudeDBFallback(x []float64, freq, fs float64) float64 {
	n := len(x)
	k := freq * float64(n) / fs
	var re, im float64
	for i, v := range x {
		phi := -2 * math.Pi * k * float64(i) / float64(n)
		re += v * math.Cos(phi)
		im += v * math.Sin(phi)
	}
	return linToDB(math.Hypot(re, im), 1)
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func linToDB(target, reference float64) float64 {
	if reference < 1e-12 {
		reference = 1e-12
	}
	if target < 1e-12 {
		target = 1e-12
	}
	return 20 * math.Log10(target/reference)
}
