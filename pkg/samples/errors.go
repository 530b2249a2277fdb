package samples

import "errors"

// Sentinel errors for sample resolution
var (
	ErrUnknownSample = errors.New("unknown sample")
)
