package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError. Response builders map it onto the
// closed status code enumeration returned to clients.
type ErrorType string

const (
	ErrorTypeAuthFailure     ErrorType = "AUTH_FAILURE"
	ErrorTypeBadInput        ErrorType = "BAD_INPUT"
	ErrorTypeInactive        ErrorType = "INACTIVE"
	ErrorTypeInvalidArgument ErrorType = "INVALID_ARGUMENT"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeStore           ErrorType = "STORE_ERROR"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStoreFailure    = errors.New("store failure")
	ErrSessionNotFound = errors.New("session not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrAccessDenied    = errors.New("access denied")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error returns the message followed by the cause, if any.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewAuthFailureError reports a missing, invalid or expired session, or
// credentials that do not authenticate.
func NewAuthFailureError(message string) *AppError {
	return NewAppError(ErrorTypeAuthFailure, message, http.StatusUnauthorized)
}

// NewBadInputError reports missing or malformed request fields.
func NewBadInputError(message string) *AppError {
	return NewAppError(ErrorTypeBadInput, message, http.StatusBadRequest)
}

// NewInactiveError reports an account or resource that exists but is disabled.
func NewInactiveError(message string) *AppError {
	return NewAppError(ErrorTypeInactive, message, http.StatusForbidden)
}

// NewInvalidArgumentError is returned by internal APIs called with a blank
// identifier or nil input.
func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(ErrorTypeInvalidArgument, message, http.StatusBadRequest).WithCause(ErrInvalidArgument)
}

// NewNotFoundError reports an absent entity or an empty data-layer response.
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorTypeNotFound, message, http.StatusNotFound).WithCause(ErrNotFound)
}

// NewStoreError reports a failure of a backing store (session store, database).
func NewStoreError(message string) *AppError {
	return NewAppError(ErrorTypeStore, message, http.StatusInternalServerError)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// WrapError returns err unchanged when it already is an AppError, otherwise it
// wraps it into an internal error carrying message.
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// MessageOf returns the client facing message of err without the cause chain.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if isType(err, ErrorTypeNotFound) {
		return true
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrRecordNotFound)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return isType(err, ErrorTypeInvalidArgument) || errors.Is(err, ErrInvalidArgument)
}

// IsStore checks if an error originates from a backing store
func IsStore(err error) bool {
	return isType(err, ErrorTypeStore) || errors.Is(err, ErrStoreFailure)
}

// IsAuthFailure checks if an error is an authentication failure
func IsAuthFailure(err error) bool {
	return isType(err, ErrorTypeAuthFailure) || errors.Is(err, ErrAccessDenied)
}

// IsBadInput checks if an error is a bad input error
func IsBadInput(err error) bool {
	return isType(err, ErrorTypeBadInput)
}
