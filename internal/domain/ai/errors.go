package ai

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the provider could not be reached (network/timeout).
var ErrUnavailable = errors.New("ai provider unavailable")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMalformedResponse indicates the provider answered but the body does not
// match the expected result shape. We fail closed instead of guessing.
var ErrMalformedResponse = errors.New("malformed ai response")

// RejectedError carries the provider's own status and message for a non-2xx reply.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("ai provider rejected request (status %d): %s", e.StatusCode, e.Message)
}
