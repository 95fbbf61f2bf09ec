package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/analyze", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "print(1)", body["code"])
		assert.Equal(t, "python", body["language"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"code":"print(1)","language":"python","explanation":"Prints 1","suggestions":[],"bugs":[],"created_at":"2025-06-01T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	a, err := c.Analyze(context.Background(), "print(1)", "python")
	require.NoError(t, err)
	assert.EqualValues(t, 7, a.ID)
	assert.Equal(t, "Prints 1", a.Explanation)
	assert.Empty(t, a.Suggestions)
}

func TestAnalyzeErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"ai provider unavailable: dial tcp: timeout"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Analyze(context.Background(), "x", "go")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "unavailable")
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/history", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2,"code":"b","language":"go","explanation":"B","suggestions":[],"bugs":[],"created_at":"2025-06-01T13:00:00Z"},{"id":1,"code":"a","language":"go","explanation":"A","suggestions":[],"bugs":[],"created_at":"2025-06-01T12:00:00Z"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.History(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 2, list[0].ID)
}

func TestHistoryEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.History(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
