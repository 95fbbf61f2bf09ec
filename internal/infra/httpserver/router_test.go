package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/code-reviewer/internal/application"
	appreview "github.com/bryanwahyu/code-reviewer/internal/application/review"
	domai "github.com/bryanwahyu/code-reviewer/internal/domain/ai"
	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
)

type stubAnalyzer struct {
	result *domai.Result
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, code, language string) (*domai.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubRepo struct {
	rows   []*domain.Analysis
	nextID int64
}

func (s *stubRepo) Save(ctx context.Context, a *domain.Analysis) error {
	s.nextID++
	a.ID = domain.AnalysisID(s.nextID)
	cp := *a
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *stubRepo) List(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	out := make([]*domain.Analysis, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestRouter(an *stubAnalyzer, repo *stubRepo) http.Handler {
	svc := &appreview.Service{
		Repo:     repo,
		Analyzer: an,
		Clock:    application.SystemClock{},
	}
	return NewRouter(svc, nil, zap.NewNop(), nil)
}

func postAnalyze(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSuccess(t *testing.T) {
	an := &stubAnalyzer{result: &domai.Result{
		Explanation: "Greets a user",
		Suggestions: []string{},
		Bugs:        []string{},
	}}
	repo := &stubRepo{}
	h := newTestRouter(an, repo)

	rec := postAnalyze(t, h, `{"code":"function greet(name) { return \"Hello, \" + name; }","language":"javascript"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		ID          int64     `json:"id"`
		Code        string    `json:"code"`
		Language    string    `json:"language"`
		Explanation string    `json:"explanation"`
		Suggestions []string  `json:"suggestions"`
		Bugs        []string  `json:"bugs"`
		CreatedAt   time.Time `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, `function greet(name) { return "Hello, " + name; }`, got.Code)
	assert.Equal(t, "javascript", got.Language)
	assert.Equal(t, "Greets a user", got.Explanation)
	assert.False(t, got.CreatedAt.IsZero())

	// empty lists must encode as [], never null
	assert.Contains(t, rec.Body.String(), `"suggestions":[]`)
	assert.Contains(t, rec.Body.String(), `"bugs":[]`)
}

func TestAnalyzeLanguageVerbatim(t *testing.T) {
	an := &stubAnalyzer{result: &domai.Result{Explanation: "ok"}}
	repo := &stubRepo{}
	h := newTestRouter(an, repo)

	rec := postAnalyze(t, h, `{"code":"print(1)","language":" Python "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Language string `json:"language"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// free-form label, no lowercasing or trimming
	assert.Equal(t, " Python ", got.Language)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, " Python ", repo.rows[0].Language)
}

func TestAnalyzeValidation(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{}, &stubRepo{})

	cases := map[string]string{
		"missing code":     `{"language":"python"}`,
		"missing language": `{"code":"print(1)"}`,
		"code not string":  `{"code":123,"language":"python"}`,
		"not json":         `not json at all`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postAnalyze(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var payload map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.NotEmpty(t, payload["detail"])
		})
	}
}

func TestAnalyzeGatewayUnavailable(t *testing.T) {
	an := &stubAnalyzer{err: domai.ErrUnavailable}
	repo := &stubRepo{}
	h := newTestRouter(an, repo)

	rec := postAnalyze(t, h, `{"code":"x","language":"go"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload["detail"], "unavailable")

	// no record persisted on failure
	assert.Empty(t, repo.rows)

	histRec := httptest.NewRecorder()
	h.ServeHTTP(histRec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, histRec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(histRec.Body.String()))
}

func TestAnalyzeGatewayRejected(t *testing.T) {
	an := &stubAnalyzer{err: &domai.RejectedError{StatusCode: 400, Message: "bad prompt"}}
	h := newTestRouter(an, &stubRepo{})

	rec := postAnalyze(t, h, `{"code":"x","language":"go"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad prompt")
}

func TestAnalyzeQuota(t *testing.T) {
	an := &stubAnalyzer{err: domai.ErrQuotaExceeded}
	h := newTestRouter(an, &stubRepo{})

	rec := postAnalyze(t, h, `{"code":"x","language":"go"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAnalyzeMalformedModelResponse(t *testing.T) {
	an := &stubAnalyzer{err: domai.ErrMalformedResponse}
	h := newTestRouter(an, &stubRepo{})

	rec := postAnalyze(t, h, `{"code":"x","language":"go"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	an := &stubAnalyzer{result: &domai.Result{Explanation: "ok"}}
	repo := &stubRepo{}
	h := newTestRouter(an, repo)

	for _, code := range []string{"first", "second", "third"} {
		rec := postAnalyze(t, h, `{"code":"`+code+`","language":"go"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Code)
	assert.Equal(t, "first", list[2].Code)
	assert.Greater(t, list[0].ID, list[2].ID)
}

func TestHistoryLimit(t *testing.T) {
	an := &stubAnalyzer{result: &domai.Result{Explanation: "ok"}}
	repo := &stubRepo{}
	h := newTestRouter(an, repo)

	for i := 0; i < 5; i++ {
		postAnalyze(t, h, `{"code":"x","language":"go"}`)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestHistoryBadLimit(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{}, &stubRepo{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
