// Command ecg-tune calibrates the QRS detector's two free constants
// (threshold percentile seed and signal/noise blend weight) against an
// annotated reference recording, using a Mayfly metaheuristic search.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ecgcore/ecg-analyzer/ioecg"
	"github.com/ecgcore/ecg-analyzer/preprocess"
)

func main() {
	referencePath := flag.String("reference", "", "Path to a CSV or WAV voltage track (required)")
	annotationsPath := flag.String("annotations", "", "Path to a text file of reference R-peak sample indices, one per line (required)")
	sampleRate := flag.Float64("fs", 0, "Sample rate in Hz (required for single-column CSV; ignored for WAV)")
	outputPath := flag.String("output", "tuned-detector.json", "Path to write the best detect.Config as JSON")
	toleranceSamples := flag.Int("tolerance-samples", 0, "Matching tolerance in samples passed to the scorer (0 uses the package default)")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size")
	mayflyIters := flag.Int("mayfly-iters", 50, "Number of Mayfly generations")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *referencePath == "" || *annotationsPath == "" {
		die("--reference and --annotations are required")
	}

	samples, fs, err := loadTrack(*referencePath, *sampleRate)
	if err != nil {
		die("failed to load %s: %v", *referencePath, err)
	}

	reference, err := loadAnnotations(*annotationsPath)
	if err != nil {
		die("failed to load %s: %v", *annotationsPath, err)
	}

	cleaned, _, err := preprocess.Preprocess(samples, fs)
	if err != nil {
		die("preprocess failed: %v", err)
	}

	cfg := &tuneConfig{
		cleaned:          cleaned,
		fs:               fs,
		reference:        reference,
		toleranceSamples: *toleranceSamples,
		seed:             *seed,
		mayflyVariant:    strings.ToLower(*mayflyVariant),
		mayflyPop:        *mayflyPop,
		mayflyIters:      *mayflyIters,
	}

	result, err := runOptimization(cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}

	fmt.Printf("best score=%.4f f1=%.4f precision=%.4f recall=%.4f threshold_percentile=%.3f threshold_blend=%.3f\n",
		result.metrics.Score, result.metrics.F1, result.metrics.Precision, result.metrics.Recall,
		result.best.ThresholdPercentile, result.best.ThresholdBlend)

	f, err := os.Create(*outputPath)
	if err != nil {
		die("failed to write %s: %v", *outputPath, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.best); err != nil {
		die("failed to encode %s: %v", *outputPath, err)
	}
}

func loadTrack(path string, fs float64) ([]float64, float64, error) {
	if strings.HasSuffix(strings.ToLower(path), ".wav") {
		samples, wavFs, err := ioecg.ReadWAVMono(path)
		return samples, float64(wavFs), err
	}
	samples, csvFs, err := ioecg.ReadCSVVoltages(path)
	if err != nil {
		return nil, 0, err
	}
	if csvFs > 0 {
		return samples, csvFs, nil
	}
	if fs <= 0 {
		return nil, 0, fmt.Errorf("single-column CSV requires --fs")
	}
	return samples, fs, nil
}

func loadAnnotations(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("invalid annotation line %q: %w", line, err)
		}
		out = append(out, v)
	}
	return out, sc.Err()
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
