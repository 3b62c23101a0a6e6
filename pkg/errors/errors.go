package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Reason  string    `json:"reason,omitempty"`
	Details []string  `json:"details,omitempty"`
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
	ErrFormat
	ErrValidation
	ErrTransient
	ErrPaymentCancelled
	ErrPaymentUnavailable
	ErrSubmitConflict
)

// Payment failure reason codes, carried in AppError.Reason so callers can
// tell "user backed out" apart from "payment infrastructure unavailable".
const (
	ReasonUserCancelled     = "user_cancelled"
	ReasonSDKUnavailable    = "sdk_unavailable"
	ReasonSignatureMismatch = "signature_mismatch"
	ReasonOrderFailed       = "order_failed"
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

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "authentication required, please log in",
		Err:     err,
	}
}

// NewFormat reports a malformed time/date string. These indicate bad data
// from a caller or collaborator, never user input, so callers fail fast.
func NewFormat(message string) *AppError {
	return &AppError{
		Code:    ErrFormat,
		Message: message,
	}
}

// NewValidation carries every violated business rule, in evaluation order.
func NewValidation(violations []string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("invalid request: %s", strings.Join(violations, "; ")),
		Details: violations,
	}
}

// NewTransient wraps a retryable infrastructure failure (network, 5xx).
func NewTransient(message string, err error) *AppError {
	return &AppError{
		Code:    ErrTransient,
		Message: message,
		Err:     err,
	}
}

func NewPaymentCancelled(reason string) *AppError {
	return &AppError{
		Code:    ErrPaymentCancelled,
		Message: "payment was not completed",
		Reason:  reason,
	}
}

func NewPaymentUnavailable(reason string, err error) *AppError {
	return &AppError{
		Code:    ErrPaymentUnavailable,
		Message: "payment service is unavailable, please try again later",
		Reason:  reason,
		Err:     err,
	}
}

// NewSubmitConflict marks a backend rejection after validation (and payment,
// when applicable) already succeeded. Money may have moved, so the message
// points the user at support instead of inviting a silent retry.
func NewSubmitConflict(message string, err error) *AppError {
	if message == "" {
		message = "booking could not be completed, please contact support"
	}
	return &AppError{
		Code:    ErrSubmitConflict,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the AppError code from an error chain, ErrInternal if none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
