package expression

import "errors"

// Sentinel errors for condition evaluation
var (
	ErrCompileFailed = errors.New("condition compilation failed")
	ErrEvalFailed    = errors.New("condition evaluation failed")
	ErrNotBoolean    = errors.New("condition did not return a boolean")
)
