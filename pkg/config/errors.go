package config

import "errors"

// Sentinel errors for configuration validation
var (
	ErrInvalidPayloadSize = errors.New("max payload size cannot be negative")
	ErrInvalidMaxNodes    = errors.New("max nodes cannot be negative")
	ErrInvalidMaxEdges    = errors.New("max edges cannot be negative")
	ErrInvalidMaxActions  = errors.New("max actions cannot be negative")
	ErrInvalidHistoryCap  = errors.New("max history events cannot be negative")
)
