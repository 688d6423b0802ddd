package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/smtgolf/internal/app"
)

// CompareDependencies defines the interface for match comparison.
type CompareDependencies interface {
	Compare(ctx context.Context, matchA, matchB string) (service.ComparisonResult, error)
	ExportComparison(ctx context.Context, matchA, matchB string, w io.Writer) error
}

// CompareHandler handles comparison requests.
type CompareHandler struct {
	deps CompareDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps CompareDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandleCompare handles GET /api/compare?matchA=&matchB= requests.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	q := r.URL.Query()
	res, err := h.deps.Compare(r.Context(), q.Get("matchA"), q.Get("matchB"))
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExport handles GET /api/compare/export.xlsx?matchA=&matchB= requests.
func (h *CompareHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_comparison"
	q := r.URL.Query()
	a, b := q.Get("matchA"), q.Get("matchB")

	var buf bytes.Buffer
	if err := h.deps.ExportComparison(r.Context(), a, b, &buf); err != nil {
		fail(w, r, op, err)
		return
	}
	writeWorkbook(w, fmt.Sprintf("compare-%s-vs-%s.xlsx", a, b), &buf)
}
