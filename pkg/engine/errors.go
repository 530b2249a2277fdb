package engine

import "errors"

// Sentinel errors for engine operations
var (
	ErrNoWorkspace     = errors.New("no workspace loaded")
	ErrInvalidDocument = errors.New("invalid workspace document")
	ErrPayloadTooLarge = errors.New("workspace document exceeds size limit")
	ErrTooManyNodes    = errors.New("workspace exceeds node limit")
	ErrTooManyEdges    = errors.New("workspace exceeds edge limit")
	ErrTooManyActions  = errors.New("workspace exceeds action limit")
)
