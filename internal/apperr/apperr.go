// Package apperr defines the error taxonomy shared by the simulated
// back-ends. Every business error carries a kind, the entity it concerns
// and, for validation failures, the offending field, so handlers can map
// errors to status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindInternal     Kind = "internal"
)

type Error struct {
	Kind    Kind
	Entity  string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Message)
}

// Validation reports malformed or out-of-range input on a field.
func Validation(entity, field, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindValidation,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound reports that the referenced entity does not exist.
func NotFound(entity string, id interface{}) *Error {
	return &Error{
		Kind:    KindNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%v not found", id),
	}
}

// InvalidState reports an operation not permitted in the entity's
// current state.
func InvalidState(entity, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal reports unexpected store corruption. It should not occur
// given the package invariants; callers log it and fail the request.
func Internal(entity, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindInternal,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the kind of err, or KindInternal when err is not an
// *Error from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
