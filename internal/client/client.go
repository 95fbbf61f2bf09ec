// Package client is a small HTTP client for the reviewer API,
// used by the reviewctl command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
)

// APIError is a non-200 reply from the server, carrying its detail message.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Analyze submits one snippet and returns the stored record.
func (c *Client) Analyze(ctx context.Context, code, language string) (*domain.Analysis, error) {
	payload, err := json.Marshal(map[string]string{"code": code, "language": language})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out domain.Analysis
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches past analyses, newest first. limit <= 0 fetches everything.
func (c *Client) History(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	url := c.BaseURL + "/api/history"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	out := []*domain.Analysis{}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Detail == "" {
			payload.Detail = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
