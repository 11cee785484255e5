package dsp

import "errors"

var (
	errBadOrder   = errors.New("dsp: filter order must be even and >= 2")
	errBadFs      = errors.New("dsp: sample rate must be > 1 Hz")
	errBadCutoffs = errors.New("dsp: cutoff frequencies out of range")
)
