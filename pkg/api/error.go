package api

import (
	"errors"
	"fmt"
)

// APIError represents a failed gateway operation. StatusCode is 0 for
// transport-level failures that never produced an HTTP response.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// NewError creates a transport-level error with no status code.
func NewError(format string, args ...interface{}) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...)}
}

// NewHTTPError creates an error carrying the HTTP status code.
func NewHTTPError(statusCode int, format string, args ...interface{}) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

// StatusCode extracts the HTTP status code from an error, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return StatusCode(err) == 401
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return StatusCode(err) == 403
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return StatusCode(err) >= 500
}
