package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appreview "github.com/bryanwahyu/code-reviewer/internal/application/review"
	domai "github.com/bryanwahyu/code-reviewer/internal/domain/ai"
	"github.com/bryanwahyu/code-reviewer/internal/middleware"
)

type Router struct {
	reviewSvc *appreview.Service
}

// NewRouter wires the API surface. ui (optional) serves the embedded web
// client on everything the API does not claim.
func NewRouter(reviewSvc *appreview.Service, checkers map[string]middleware.HealthChecker, logger *zap.Logger, ui http.Handler) http.Handler {
	rt := &Router{reviewSvc: reviewSvc}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	// allow-all CORS, same as the original dev setup
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(r chi.Router) {
		r.Post("/analyze", rt.wrap(rt.handleAnalyze))
		r.Get("/history", rt.wrap(rt.handleHistory))
	})

	if ui != nil {
		mux.Handle("/*", ui)
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// validationError marks a request that never reaches the gateway or store.
type validationError string

func (e validationError) Error() string { return string(e) }

func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var verr validationError
		var rej *domai.RejectedError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, domai.ErrUnavailable),
			errors.Is(err, domai.ErrMalformedResponse):
			writeError(w, http.StatusBadGateway, err.Error())
		case errors.As(err, &rej):
			writeError(w, http.StatusBadGateway, rej.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// POST /api/analyze
// Body: {"code": "...", "language": "..."}
func (rt *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Code     *string `json:"code"`
		Language *string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return validationError("invalid JSON body: " + err.Error())
	}
	if body.Code == nil {
		return validationError("code is required and must be a string")
	}
	if body.Language == nil {
		return validationError("language is required and must be a string")
	}

	// language is free-form and passes through verbatim; the record must
	// echo exactly what was submitted
	middleware.IncrementAnalyses()
	a, err := rt.reviewSvc.Analyze(req.Context(), *body.Code, *body.Language)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	return writeJSON(w, http.StatusOK, a)
}

// GET /api/history?limit=
func (rt *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return validationError("limit must be an integer")
		}
		limit = middleware.ValidateLimit(n)
	}

	list, err := rt.reviewSvc.History(req.Context(), limit)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
