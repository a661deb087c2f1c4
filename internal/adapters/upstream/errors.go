package upstream

import (
	"errors"
	"fmt"
)

// Sentinel kinds for fetch errors.
var (
	ErrRequest = errors.New("patient request failed")
	ErrStatus  = errors.New("unexpected patient response status")
	ErrDecode  = errors.New("malformed patient payload")
)

// StatusError carries the HTTP status of a non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus, e.Code)
}

// Is reports ErrStatus so callers can match the kind without the code.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "request"
	}
}
