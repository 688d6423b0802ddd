package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/smtgolf/internal/app"
	"github.com/okian/smtgolf/internal/domain/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MatchesDependencies defines the interface for stored match operations.
type MatchesDependencies interface {
	ListMatches(ctx context.Context) ([]model.Match, error)
	GetMatch(ctx context.Context, matchNumber string) (service.MatchStats, error)
	DeleteMatch(ctx context.Context, matchNumber string) error
	ExportMatch(ctx context.Context, matchNumber string, w io.Writer) error
}

// MatchesHandler handles stored match requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

type matchListResponse struct {
	Matches []model.Match `json:"matches"`
}

// HandleList handles GET /api/matches requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	matches, err := h.deps.ListMatches(r.Context())
	if err != nil {
		fail(w, r, op, err)
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}
	writeJSON(w, http.StatusOK, matchListResponse{Matches: matches})
}

// HandleGet handles GET /api/matches/{matchNumber} requests.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	m, err := h.deps.GetMatch(r.Context(), chi.URLParam(r, "matchNumber"))
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /api/matches/{matchNumber} requests.
func (h *MatchesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_match"
	if err := h.deps.DeleteMatch(r.Context(), chi.URLParam(r, "matchNumber")); err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleExport handles GET /api/matches/{matchNumber}/export.xlsx requests.
func (h *MatchesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_match"
	matchNumber := chi.URLParam(r, "matchNumber")

	var buf bytes.Buffer
	if err := h.deps.ExportMatch(r.Context(), matchNumber, &buf); err != nil {
		fail(w, r, op, err)
		return
	}
	writeWorkbook(w, fmt.Sprintf("match-%s.xlsx", matchNumber), &buf)
}

// writeWorkbook sends a fully rendered workbook as an attachment.
func writeWorkbook(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
