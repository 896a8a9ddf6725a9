package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types grouped by where they originate

type ErrorType int

// Request errors - detected before any outbound call
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound

	// Infrastructure errors - produced by calls to external providers
	ErrorTypeUpstream
	ErrorTypeMailTransport

	// Startup errors
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeUpstream:
		return "UPSTREAM_ERROR"
	case ErrorTypeMailTransport:
		return "MAIL_TRANSPORT_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across the handlers and adapters
const (
	ValidationError    = ErrorTypeValidation
	NotFoundError      = ErrorTypeNotFound
	UpstreamError      = ErrorTypeUpstream
	MailTransportError = ErrorTypeMailTransport
	ConfigurationError = ErrorTypeConfiguration
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusError records a non-success response from an upstream provider.
// StatusCode is zero when no response was received at all.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return "no response from upstream"
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Request error constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

// Infrastructure error constructors
func NewUpstreamError(message string, cause error) *AppError {
	return Wrap(UpstreamError, message, cause)
}

// NewUpstreamStatusError builds an upstream error for a non-success HTTP response.
func NewUpstreamStatusError(message string, statusCode int, body string) *AppError {
	return Wrap(UpstreamError, message, &StatusError{StatusCode: statusCode, Body: body})
}

func NewMailTransportError(message string, cause error) *AppError {
	return Wrap(MailTransportError, message, cause)
}

// Startup error constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// TypeOf returns the type of the outermost AppError in the chain.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// UpstreamStatus returns the upstream HTTP status carried anywhere in the chain.
func UpstreamStatus(err error) (int, bool) {
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// Helper functions for error type checking
func IsNotFoundError(err error) bool {
	return TypeOf(err) == NotFoundError
}

func IsValidationError(err error) bool {
	return TypeOf(err) == ValidationError
}

func IsUpstreamError(err error) bool {
	return TypeOf(err) == UpstreamError
}

func IsMailTransportError(err error) bool {
	return TypeOf(err) == MailTransportError
}

func IsConfigurationError(err error) bool {
	return TypeOf(err) == ConfigurationError
}
