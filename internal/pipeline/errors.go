package pipeline

import (
	"errors"
	"fmt"
)

// Validation sentinels.
var (
	ErrNoInput       = errors.New("no image data provided")
	ErrBadDimensions = errors.New("target dimensions must be positive")

	// ErrFillNoop marks a generative response that returned the input
	// unchanged. Treated exactly like a generative failure: the
	// deterministic fallback takes over and the error never surfaces.
	ErrFillNoop = errors.New("generative fill returned the input unchanged")
)

// ProcessingError is the single terminal error a request can fail with.
// Stage names the pipeline stage that exhausted its options.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &ProcessingError{Stage: stage, Err: err}
}
