package httpclient

import (
	"errors"
	"testing"
	"time"
)

func TestRetryableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RetryableError
		expected string
	}{
		{
			name: "error_with_retry_after",
			err: &RetryableError{
				StatusCode: 429,
				Message:    "max HTTP retries (3) exceeded",
				RetryAfter: 30 * time.Second,
				Err:        errors.New("HTTP 429"),
			},
			expected: "HTTP 429: max HTTP retries (3) exceeded (retry after 30s)",
		},
		{
			name: "error_without_retry_after",
			err: &RetryableError{
				StatusCode: 500,
				Message:    "internal server error",
				Err:        errors.New("HTTP 500"),
			},
			expected: "HTTP 500: internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	underlying := errors.New("HTTP 503")
	err := &RetryableError{StatusCode: 503, Message: "unavailable", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the underlying error")
	}
	if !err.IsRetryable() {
		t.Error("RetryableError must report retryable")
	}
}
