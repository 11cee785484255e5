package ecgcore

import "errors"

// Sentinel error kinds the core can return. Use errors.Is to test for them;
// the driver wraps each with additional context via fmt.Errorf("...: %w").
var (
	// ErrInsufficientData is returned when the sample count is below the
	// minimum a stage needs to produce a meaningful result.
	ErrInsufficientData = errors.New("ecgcore: insufficient data")

	// ErrBadConfig is returned for a non-positive sample rate, invalid
	// filter cutoffs, or non-finite input samples.
	ErrBadConfig = errors.New("ecgcore: bad configuration")
)
