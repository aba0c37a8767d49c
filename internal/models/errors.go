package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrNotFinished     = errors.New("current schedule not finished")
	ErrBalanceMismatch = errors.New("balance does not match obligation")
	ErrUnauthorized    = errors.New("caller not authorized")
	ErrExternalCall    = errors.New("external call failure")
	ErrPaused          = errors.New("injector is paused")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// ExternalCallError reports a receiver whose approve or deposit call was rejected.
type ExternalCallError struct {
	Receiver Address
	Err      error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("external call failure for %s: %v", e.Receiver, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

func (e *ExternalCallError) Is(target error) bool {
	return target == ErrExternalCall
}
