package schema

import "errors"

// Sentinel errors for document validation
var (
	ErrNotValidatable = errors.New("document could not be validated")
)
