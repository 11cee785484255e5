// Package ioecg provides convenience loaders/writers for feeding a voltage
// track to ecgcore.Analyze: CSV and WAV readers, a WAV writer for dumping a
// cleaned signal, and a resampler. None of this is part of the analysis
// core; it exists so the cmd/ tools and ad-hoc testing don't hand-roll PCM
// or CSV decoding.
package ioecg

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// ReadCSVVoltages reads either a single-column-per-sample CSV (one voltage
// per row) or a two-column `time,mV` CSV. fs is derived from the time
// column's spacing in the two-column case; otherwise it is returned as 0
// and the caller must supply it.
func ReadCSVVoltages(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("ioecg: reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("ioecg: %s is empty", path)
	}

	if len(records[0]) >= 2 {
		return readTwoColumnCSV(records)
	}
	return readSingleColumnCSV(records)
}

func readSingleColumnCSV(records [][]string) ([]float64, float64, error) {
	samples := make([]float64, 0, len(records))
	for _, row := range records {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			continue // header row or malformed line
		}
		samples = append(samples, v)
	}
	return samples, 0, nil
}

func readTwoColumnCSV(records [][]string) ([]float64, float64, error) {
	var times, samples []float64
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		t, errT := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		v, errV := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errT != nil || errV != nil {
			continue // header row
		}
		times = append(times, t)
		samples = append(samples, v)
	}
	if len(times) < 2 {
		return samples, 0, nil
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	if dt <= 0 {
		return samples, 0, fmt.Errorf("ioecg: non-increasing time column")
	}
	return samples, 1 / dt, nil
}

// ReadWAVMono decodes a mono (or channel-averaged) WAV file into a voltage
// sequence and its sample rate.
func ReadWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("ioecg: invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("ioecg: invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch)
	}
	return out, buf.Format.SampleRate, nil
}

// WriteMonoWAV writes samples as a 16-bit mono PCM WAV file, scaled to full
// scale against the signal's own peak so a cleaned ECG signal (millivolt
// scale) produces an audible/inspectable waveform.
func WriteMonoWAV(path string, samples []float64, fs int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, fs, 16, 1, 1)
	defer enc.Close()

	peak := 0.0
	for _, v := range samples {
		a := math.Abs(v)
		if a > peak {
			peak = a
		}
	}
	scale := float32(1.0)
	if peak > 0 {
		scale = float32(1.0 / peak)
	}

	data := make([]float32, len(samples))
	for i, v := range samples {
		data[i] = float32(v) * scale
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  fs,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}

// ResampleTo resamples samples from fromHz to toHz using a high-quality
// polyphase resampler. A no-op when the rates already match.
func ResampleTo(samples []float64, fromHz, toHz float64) ([]float64, error) {
	if fromHz == toHz {
		return samples, nil
	}
	r, err := dspresample.NewForRates(fromHz, toHz, dspresample.WithQuality(dspresample.QualityBest))
	if err != nil {
		return nil, fmt.Errorf("ioecg: resample: %w", err)
	}
	return r.Process(samples), nil
}
