package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"

	"github.com/ecgcore/ecg-analyzer/analysis"
	"github.com/ecgcore/ecg-analyzer/detect"
)

type tuneConfig struct {
	cleaned          []float64
	fs               float64
	reference        []int
	toleranceSamples int
	seed             int64
	mayflyVariant    string
	mayflyPop        int
	mayflyIters      int
}

type tuneResult struct {
	best    detect.Config
	metrics analysis.DetectionMetrics
}

// Two free parameters: ThresholdPercentile in [90, 99.9], ThresholdBlend in
// [0.05, 0.95]. Normalized to [0, 1] for the Mayfly search.
const (
	percentileLo, percentileHi = 90.0, 99.9
	blendLo, blendHi           = 0.05, 0.95
)

func fromNormalized(pos []float64) detect.Config {
	return detect.Config{
		ThresholdPercentile: percentileLo + clamp01(pos[0])*(percentileHi-percentileLo),
		ThresholdBlend:      blendLo + clamp01(pos[1])*(blendHi-blendLo),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func runOptimization(cfg *tuneConfig) (*tuneResult, error) {
	evaluate := func(c detect.Config) analysis.DetectionMetrics {
		detected, _ := detect.DetectRPeaks(cfg.cleaned, cfg.fs, c)
		aligned := alignByCrossCorrelation(detected, cfg.reference)
		return analysis.ScoreDetections(aligned, cfg.reference, cfg.toleranceSamples)
	}

	best := detect.DefaultConfig()
	bestMetrics := evaluate(best)
	fmt.Printf("start score=%.4f f1=%.4f\n", bestMetrics.Score, bestMetrics.F1)

	mayflyConfig, err := newMayflyConfig(cfg.mayflyVariant, cfg.mayflyPop, cfg.mayflyIters)
	if err != nil {
		return nil, err
	}
	mayflyConfig.Rand = rand.New(rand.NewSource(cfg.seed))
	mayflyConfig.ObjectiveFunc = func(pos []float64) float64 {
		c := fromNormalized(pos)
		m := evaluate(c)
		if m.Score < bestMetrics.Score {
			best = c
			bestMetrics = m
		}
		return m.Score
	}

	if _, err := mayfly.Optimize(mayflyConfig); err != nil {
		return nil, fmt.Errorf("mayfly: %w", err)
	}

	return &tuneResult{best: best, metrics: bestMetrics}, nil
}

func newMayflyConfig(variant string, pop, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported mayfly variant %q", variant)
	}
	cfg.ProblemSize = 2
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// alignByCrossCorrelation coarse-aligns the detected impulse train to the
// reference impulse train before scoring, so a detector-wide sample-offset
// bias doesn't get punished as missed beats. It builds a unit-impulse
// signal at each peak index, cross-correlates detected against
// time-reversed reference via overlap-add convolution, and shifts detected
// by the lag at peak correlation.
func alignByCrossCorrelation(detected, reference []int) []int {
	if len(detected) == 0 || len(reference) == 0 {
		return detected
	}

	n := maxPeak(detected, reference) + 1
	refImpulses := impulseTrain(reference, n)
	detImpulses := impulseTrain(detected, n)

	reversedRef := make([]float64, len(refImpulses))
	for i, v := range refImpulses {
		reversedRef[len(refImpulses)-1-i] = v
	}

	ola, err := dspconv.NewOverlapAdd(reversedRef, 1024)
	if err != nil {
		return detected
	}
	corr, err := ola.Process(detImpulses)
	if err != nil {
		return detected
	}

	centerLag := len(refImpulses) - 1
	bestLag := 0
	bestVal := math.Inf(-1)
	maxSearch := n / 4
	for lag := -maxSearch; lag <= maxSearch; lag++ {
		idx := centerLag + lag
		if idx < 0 || idx >= len(corr) {
			continue
		}
		if corr[idx] > bestVal {
			bestVal = corr[idx]
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return detected
	}
	shifted := make([]int, len(detected))
	for i, d := range detected {
		shifted[i] = d - bestLag
	}
	return shifted
}

func impulseTrain(peaks []int, n int) []float64 {
	out := make([]float64, n)
	for _, p := range peaks {
		if p >= 0 && p < n {
			out[p] = 1
		}
	}
	return out
}

func maxPeak(a, b []int) int {
	m := 0
	for _, v := range a {
		if v > m {
			m = v
		}
	}
	for _, v := range b {
		if v > m {
			m = v
		}
	}
	return m
}
