package builtin

import "errors"

// Sentinel errors for built-in effects
var (
	ErrMissingParam = errors.New("missing or invalid parameter")
	ErrNoGraph      = errors.New("effect context has no graph handle")
)
