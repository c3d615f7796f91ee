package canvas

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorType classifies an APIError by the kind of Canvas failure it represents.
type ErrorType string

// Error types
const (
	// ErrorTypeAuthentication is returned when Canvas rejects the API token
	ErrorTypeAuthentication ErrorType = "authentication"

	// ErrorTypeNotFound is returned when the requested resource does not exist
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeValidation is returned when Canvas rejects the request parameters
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeRateLimit is returned when Canvas throttles the caller
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeServer is returned on Canvas-side 5xx failures
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeTimeout is returned when a request exceeds the configured timeout
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeAPI is returned for any other non-success response
	ErrorTypeAPI ErrorType = "api"
)

// APIError represents a failed Canvas API request. StatusCode is 0 when no
// HTTP status applies, such as a timeout before any response arrived.
type APIError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Endpoint   string
}

var _ error = &APIError{}

// Error returns the error message
func (e *APIError) Error() string {
	msg := "Canvas API Error: " + e.Message
	if e.StatusCode != 0 {
		msg = "[" + strconv.Itoa(e.StatusCode) + "] " + msg
	}
	if e.Endpoint != "" {
		msg += " (endpoint: " + e.Endpoint + ")"
	}
	return msg
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewAuthError creates an authentication error. The message never echoes the
// token that was rejected.
func NewAuthError(endpoint string) *APIError {
	return &APIError{
		Type:       ErrorTypeAuthentication,
		StatusCode: 401,
		Message:    "Authentication failed. Invalid or expired Canvas API token.",
		Endpoint:   endpoint,
	}
}

// NewNotFoundError creates a not found error for the given endpoint.
func NewNotFoundError(endpoint string) *APIError {
	return &APIError{
		Type:       ErrorTypeNotFound,
		StatusCode: 404,
		Message:    "Resource not found: " + endpoint,
		Endpoint:   endpoint,
	}
}

// NewValidationError creates a validation error carrying the message Canvas
// returned in the response body.
func NewValidationError(message string, statusCode int, endpoint string) *APIError {
	return &APIError{
		Type:       ErrorTypeValidation,
		StatusCode: statusCode,
		Message:    "Validation error: " + message,
		Endpoint:   endpoint,
	}
}

// NewRateLimitError creates a rate limit error. retryAfter is the parsed
// Retry-After header in seconds, 0 when Canvas did not send one.
func NewRateLimitError(retryAfter int, endpoint string) *APIError {
	message := "Rate limit exceeded."
	if retryAfter > 0 {
		message += fmt.Sprintf(" Retry after %d seconds.", retryAfter)
	}
	return &APIError{
		Type:       ErrorTypeRateLimit,
		StatusCode: 429,
		Message:    message,
		Endpoint:   endpoint,
	}
}

// NewServerError creates a server error for a 5xx response.
func NewServerError(statusCode int, endpoint string) *APIError {
	return &APIError{
		Type:       ErrorTypeServer,
		StatusCode: statusCode,
		Message:    "Canvas server error. Please try again later.",
		Endpoint:   endpoint,
	}
}

// NewTimeoutError creates a timeout error for a request that exceeded the
// given deadline in seconds.
func NewTimeoutError(seconds int, endpoint string) *APIError {
	return &APIError{
		Type:     ErrorTypeTimeout,
		Message:  fmt.Sprintf("Request timed out after %d seconds.", seconds),
		Endpoint: endpoint,
	}
}

// NewAPIError creates a generic API error for responses that do not map to a
// more specific type.
func NewAPIError(message string, statusCode int, endpoint string) *APIError {
	return &APIError{
		Type:       ErrorTypeAPI,
		StatusCode: statusCode,
		Message:    message,
		Endpoint:   endpoint,
	}
}
