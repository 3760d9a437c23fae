// Package apperr defines the error taxonomy shared by all domain services:
// validation errors surface as 400 with a field-level message, authorization
// errors as 401/403 with no detail, and storage errors as 500 with the
// internal cause logged but never echoed to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or incomplete input. Caller-correctable.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// Validation builds a field-level validation error.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// Validationf builds a validation error without a field reference.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError marks a missing or insufficient caller identity.
type AuthorizationError struct {
	// Denied is true when the caller is known but lacks access (403);
	// false when no identity is present at all (401).
	Denied bool
}

func (e *AuthorizationError) Error() string {
	if e.Denied {
		return "access denied"
	}
	return "unauthorized"
}

// Unauthorized is returned when no caller identity is present.
func Unauthorized() error {
	return &AuthorizationError{}
}

// Forbidden is returned when the caller's role lacks access to the record.
func Forbidden() error {
	return &AuthorizationError{Denied: true}
}

// StorageError wraps a data-store failure. The wrapped cause is logged
// server-side only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a storage failure for the named operation.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorization reports whether err is an authorization error, and if so
// whether it is a denial (known caller, insufficient access).
func IsAuthorization(err error) (denied bool, ok bool) {
	var ae *AuthorizationError
	if errors.As(err, &ae) {
		return ae.Denied, true
	}
	return false, false
}

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
