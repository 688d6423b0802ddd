package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	service "github.com/okian/smtgolf/internal/app"
)

// Form fields of the upload endpoints.
const (
	formFile        = "file"
	formMatchNumber = "matchNumber"
	formDescription = "description"

	// Parts above this size spill to temporary files.
	multipartMemory = 8 << 20
)

// UploadDependencies defines the interface for CSV upload processing.
type UploadDependencies interface {
	Analyze(ctx context.Context, r io.Reader) (service.AnalyzeResult, error)
	Upload(ctx context.Context, matchNumber, description string, r io.Reader) (service.UploadResult, error)
}

// UploadHandler handles CSV uploads.
type UploadHandler struct {
	deps           UploadDependencies
	maxUploadBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps UploadDependencies, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandleAnalyze handles POST /api/analyze requests. Nothing is stored.
func (h *UploadHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	file, ok := h.openFile(w, r, op)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.deps.Analyze(r.Context(), file)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUpload handles POST /api/upload requests.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	file, ok := h.openFile(w, r, op)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.deps.Upload(r.Context(), r.FormValue(formMatchNumber), r.FormValue(formDescription), file)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// openFile parses the multipart body and opens the uploaded CSV. It writes the
// error response itself and reports false when the request cannot proceed.
func (h *UploadHandler) openFile(w http.ResponseWriter, r *http.Request, op string) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, service.ErrMissingFile))
		return nil, false
	}

	file, _, err := r.FormFile(formFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, service.ErrMissingFile))
		return nil, false
	}
	return file, true
}
