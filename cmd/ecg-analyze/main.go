// Command ecg-analyze loads a CSV or WAV voltage track and runs the ECG
// analysis core on it, printing the resulting AnalysisResult as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecgcore/ecg-analyzer/detect"
	"github.com/ecgcore/ecg-analyzer/ecgcore"
	"github.com/ecgcore/ecg-analyzer/ioecg"
)

func main() {
	inputPath := flag.String("input", "", "Path to a CSV or WAV voltage track (required)")
	sampleRate := flag.Float64("fs", 0, "Sample rate in Hz (required for single-column CSV; ignored for WAV)")
	resampleTo := flag.Float64("resample-to", 0, "If > 0, resample the loaded track to this rate before analysis")
	verbose := flag.Bool("verbose", false, "Include per-stage diagnostics in the output")
	thresholdPercentile := flag.Float64("threshold-percentile", 0, "Override the detector's threshold percentile (0 uses the default)")
	thresholdBlend := flag.Float64("threshold-blend", 0, "Override the detector's signal/noise blend weight (0 uses the default)")
	flag.Parse()

	if *inputPath == "" {
		die("--input is required")
	}

	samples, fs, err := loadTrack(*inputPath, *sampleRate)
	if err != nil {
		die("failed to load %s: %v", *inputPath, err)
	}

	if *resampleTo > 0 && *resampleTo != fs {
		samples, err = ioecg.ResampleTo(samples, fs, *resampleTo)
		if err != nil {
			die("resample failed: %v", err)
		}
		fs = *resampleTo
	}

	opts := ecgcore.Options{Verbose: *verbose}
	if *thresholdPercentile > 0 || *thresholdBlend > 0 {
		opts.Detector = detect.DefaultConfig()
		if *thresholdPercentile > 0 {
			opts.Detector.ThresholdPercentile = *thresholdPercentile
		}
		if *thresholdBlend > 0 {
			opts.Detector.ThresholdBlend = *thresholdBlend
		}
	}

	result, err := ecgcore.Analyze(samples, fs, opts)
	if err != nil {
		die("analysis failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		die("failed to encode result: %v", err)
	}
}

func loadTrack(path string, fs float64) ([]float64, float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, wavFs, err := ioecg.ReadWAVMono(path)
		return samples, float64(wavFs), err
	default:
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
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
