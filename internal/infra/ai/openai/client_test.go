package openai

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	domai "github.com/bryanwahyu/code-reviewer/internal/domain/ai"
)

func TestClassifyQuota(t *testing.T) {
	err := classify(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "rate limit"})
	assert.True(t, errors.Is(err, domai.ErrQuotaExceeded))
}

func TestClassifyRejected(t *testing.T) {
	err := classify(&openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "invalid model"})
	var rej *domai.RejectedError
	assert.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusBadRequest, rej.StatusCode)
	assert.Contains(t, rej.Message, "invalid model")
}

func TestClassifyTransport(t *testing.T) {
	err := classify(&net.OpError{Op: "dial", Err: errors.New("connection refused")})
	assert.True(t, errors.Is(err, domai.ErrUnavailable))
}
