// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/smtgolf/internal/app"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/pkg/logger"
)

const defaultMaxUploadBytes int64 = 32 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	Analyze(ctx context.Context, r io.Reader) (service.AnalyzeResult, error)
	Upload(ctx context.Context, matchNumber, description string, r io.Reader) (service.UploadResult, error)

	ListMatches(ctx context.Context) ([]model.Match, error)
	GetMatch(ctx context.Context, matchNumber string) (service.MatchStats, error)
	DeleteMatch(ctx context.Context, matchNumber string) error
	ExportMatch(ctx context.Context, matchNumber string, w io.Writer) error

	Compare(ctx context.Context, matchA, matchB string) (service.ComparisonResult, error)
	ExportComparison(ctx context.Context, matchA, matchB string, w io.Writer) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	uploadHandler  *UploadHandler
	matchesHandler *MatchesHandler
	compareHandler *CompareHandler
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes caps the request body size of upload endpoints.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		uploadHandler:  NewUploadHandler(deps, cfg.maxUploadBytes),
		matchesHandler: NewMatchesHandler(deps),
		compareHandler: NewCompareHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", MetricsMiddleware(s.uploadHandler.HandleAnalyze, "analyze"))
		r.Post("/upload", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload"))

		r.Get("/matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches"))
		r.Get("/matches/{matchNumber}", MetricsMiddleware(s.matchesHandler.HandleGet, "match"))
		r.Delete("/matches/{matchNumber}", MetricsMiddleware(s.matchesHandler.HandleDelete, "match"))
		r.Get("/matches/{matchNumber}/export.xlsx", MetricsMiddleware(s.matchesHandler.HandleExport, "match_export"))

		r.Get("/compare", MetricsMiddleware(s.compareHandler.HandleCompare, "compare"))
		r.Get("/compare/export.xlsx", MetricsMiddleware(s.compareHandler.HandleExport, "compare_export"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail translates err into a response. Client and not-found errors are
// echoed; anything else is logged and reported without detail.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case service.IsClientError(err):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
	}
}
