package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
)

// Scheduling error codes. These are expected business outcomes, not faults,
// and callers must be able to tell them apart from ErrNotFound/ErrInternal.
const (
	ErrNotOperating ErrorCode = iota + 2000
	ErrOutsideBusinessHours
	ErrCapacityExceeded
	ErrIllegalTransition
	ErrConcurrentModification
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func NotOperating(message string) *AppError {
	return &AppError{
		Code:    ErrNotOperating,
		Message: message,
	}
}

func OutsideBusinessHours(message string) *AppError {
	return &AppError{
		Code:    ErrOutsideBusinessHours,
		Message: message,
	}
}

func CapacityExceeded(message string) *AppError {
	return &AppError{
		Code:    ErrCapacityExceeded,
		Message: message,
	}
}

func IllegalTransition(message string) *AppError {
	return &AppError{
		Code:    ErrIllegalTransition,
		Message: message,
	}
}

func ConcurrentModification(message string) *AppError {
	return &AppError{
		Code:    ErrConcurrentModification,
		Message: message,
	}
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
