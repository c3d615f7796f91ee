package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantType   ErrorType
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "auth",
			err:        NewAuthError("/courses"),
			wantType:   ErrorTypeAuthentication,
			wantStatus: 401,
			wantMsg:    "Authentication failed. Invalid or expired Canvas API token.",
		},
		{
			name:       "not found",
			err:        NewNotFoundError("/courses/99"),
			wantType:   ErrorTypeNotFound,
			wantStatus: 404,
			wantMsg:    "Resource not found: /courses/99",
		},
		{
			name:       "validation",
			err:        NewValidationError("start_date is invalid", 422, "/announcements"),
			wantType:   ErrorTypeValidation,
			wantStatus: 422,
			wantMsg:    "Validation error: start_date is invalid",
		},
		{
			name:       "rate limit with retry",
			err:        NewRateLimitError(30, "/courses"),
			wantType:   ErrorTypeRateLimit,
			wantStatus: 429,
			wantMsg:    "Rate limit exceeded. Retry after 30 seconds.",
		},
		{
			name:       "rate limit without retry",
			err:        NewRateLimitError(0, "/courses"),
			wantType:   ErrorTypeRateLimit,
			wantStatus: 429,
			wantMsg:    "Rate limit exceeded.",
		},
		{
			name:       "server",
			err:        NewServerError(503, "/courses"),
			wantType:   ErrorTypeServer,
			wantStatus: 503,
			wantMsg:    "Canvas server error. Please try again later.",
		},
		{
			name:     "timeout",
			err:      NewTimeoutError(30, "/courses"),
			wantType: ErrorTypeTimeout,
			wantMsg:  "Request timed out after 30 seconds.",
		},
		{
			name:       "generic",
			err:        NewAPIError("Conflict detected", 409, "/courses"),
			wantType:   ErrorTypeAPI,
			wantStatus: 409,
			wantMsg:    "Conflict detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}
}

func TestAPIErrorFormat(t *testing.T) {
	err := NewNotFoundError("/courses/99")
	assert.Equal(t, "[404] Canvas API Error: Resource not found: /courses/99 (endpoint: /courses/99)", err.Error())

	// Timeouts carry no HTTP status, so no bracketed code.
	timeout := NewTimeoutError(30, "")
	assert.Equal(t, "Canvas API Error: Request timed out after 30 seconds.", timeout.Error())
}

func TestAsAPIError(t *testing.T) {
	apiErr := NewAuthError("/courses")
	wrapped := fmt.Errorf("tool failed: %w", apiErr)

	got, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, apiErr, got)

	_, ok = AsAPIError(fmt.Errorf("plain error"))
	assert.False(t, ok)
}
