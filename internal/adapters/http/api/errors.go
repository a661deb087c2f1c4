package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadIndex   = errors.New("patient index must be a non-negative integer")
	ErrLoadFailed = errors.New("patient data unavailable")
)
