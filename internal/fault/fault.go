package fault

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("conflict")
)

type ErrorType int

const (
	ErrClient ErrorType = iota
	ErrNotFoundType
	ErrConflictType
	ErrValidation
	ErrUnauthorized
	ErrUnavailable
	ErrInternal
)

type Fault struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]string // per-field messages of validation errors
}

func (e *Fault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.typeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.typeString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

func (e *Fault) typeString() string {
	switch e.Type {
	case ErrClient:
		return "ClientError"
	case ErrNotFoundType:
		return "NotFound"
	case ErrConflictType:
		return "Conflict"
	case ErrValidation:
		return "ValidationError"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrUnavailable:
		return "Unavailable"
	case ErrInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// NewClientError creates a new client error.
func NewClientError(msg string, err error) error {
	return &Fault{Type: ErrClient, Message: msg, Err: err}
}

// NewNotFound reports a missing resource. The error wraps ErrNotFound.
func NewNotFound(msg string) error {
	return &Fault{Type: ErrNotFoundType, Message: msg, Err: ErrNotFound}
}

// NewConflict reports a request that clashes with current state. The error
// wraps ErrConflict.
func NewConflict(msg string) error {
	return &Fault{Type: ErrConflictType, Message: msg, Err: ErrConflict}
}

// NewValidationError carries per-field messages.
func NewValidationError(msg string, fields map[string]string) error {
	return &Fault{Type: ErrValidation, Message: msg, Fields: fields}
}

func NewUnauthorized(msg string) error {
	return &Fault{Type: ErrUnauthorized, Message: msg}
}

// NewUnavailable reports a dependency that failed or is saturated. The
// request may be retried.
func NewUnavailable(msg string, err error) error {
	return &Fault{Type: ErrUnavailable, Message: msg, Err: err}
}

// NewInternalError creates a new internal server error.
func NewInternalError(msg string, err error) error {
	return &Fault{Type: ErrInternal, Message: msg, Err: err}
}

// TypeOf returns the class of err. Errors that are not faults are internal.
func TypeOf(err error) ErrorType {
	var f *Fault
	if errors.As(err, &f) {
		return f.Type
	}
	return ErrInternal
}

// Message returns the client facing message of err
func Message(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	return "internal error"
}

// FieldsOf returns the per-field messages of a validation error
func FieldsOf(err error) map[string]string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Fields
	}
	return nil
}

// IsClientError checks if an error is a client error.
func IsClientError(err error) bool {
	return TypeOf(err) == ErrClient
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInternalError checks if an error is an internal error.
func IsInternalError(err error) bool {
	return TypeOf(err) == ErrInternal
}
