// Package errs holds sentinel errors shared between packages.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrRecentNotFound = errors.New("recent connection not found")
	ErrAlreadyStarted = errors.New("already started")
	ErrInvalidIntent  = errors.New("invalid connect intent")
	ErrAPICode        = errors.New("unexpected API response code")
)

// StatusError reports an unexpected HTTP status from the API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}
