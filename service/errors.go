package service

import "errors"

// Sentinel errors distinguish request-level failures from infrastructure
// failures. Handlers map them to HTTP status codes; anything else is a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)
