package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrLoadFailed = errors.New("patient collection load failed")
	ErrNoResult   = errors.New("patient source closed without a result")
)
