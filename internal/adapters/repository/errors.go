package repository

import "errors"

// Sentinel kinds for patient store errors.
var (
	ErrIndexOutOfRange = errors.New("patient index out of range")
)
