package domain

import (
	"errors"
	"fmt"
)

// Sentinels carried inside ValidationError.Err to refine the response status.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicate       = errors.New("duplicate")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// ValidationError is a client-caused failure. It is always propagated unchanged.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError with a message only.
func Invalid(msg string) ValidationError {
	return ValidationError{Msg: msg}
}

// NotFound builds a ValidationError for a missing entity.
func NotFound(msg string) ValidationError {
	return ValidationError{Msg: msg, Err: ErrNotFound}
}

// DatabaseError wraps a persistence failure that was not classified as a ValidationError.
type DatabaseError struct {
	Op  string
	Err error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// UnauthorizedError means the caller could not be authenticated.
type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsDatabase(err error) bool {
	var target DatabaseError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}
