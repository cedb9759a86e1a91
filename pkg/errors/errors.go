package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeClientError ErrorType = "client_error"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeCancelled   ErrorType = "cancelled"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a typed failure talking to an external source
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around a cause
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf("%s: %v", message, err), Err: err}
}

// FromStatus maps a non-success HTTP status code to a typed error.
// It returns nil for 2xx codes.
func FromStatus(statusCode int, url string) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	e := &Error{
		Code:    statusCode,
		Message: fmt.Sprintf("%s returned %d %s", url, statusCode, http.StatusText(statusCode)),
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
	case statusCode == http.StatusNotFound:
		e.Type = ErrorTypeNotFound
	case statusCode >= 500:
		e.Type = ErrorTypeServerError
	case statusCode >= 400:
		e.Type = ErrorTypeClientError
	default:
		e.Type = ErrorTypeUnknown
	}
	return e
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err carries none
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err is a typed error of the given type
func Is(err error, errorType ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == errorType
}
