// Package http exposes the proof service over HTTP.
package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/SagarGupta-30/TrustChain/notes"
	"github.com/SagarGupta-30/TrustChain/proofs/auth"
	"github.com/SagarGupta-30/TrustChain/proofs/service/core"
)

// formOverhead is headroom on top of the upload cap for multipart framing
// and the small text fields next to the file.
const formOverhead = 1 << 20

// Handler wraps the proof service with HTTP handlers.
type Handler struct {
	service   *core.Service
	maxUpload int64
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. maxUpload caps accepted file sizes
// in bytes.
func NewHandler(service *core.Service, maxUpload int64, logger *zap.Logger) *Handler {
	return &Handler{service: service, maxUpload: maxUpload, logger: logger}
}

// RegisterRoutes registers all proof API routes. apiKey, when non-empty,
// gates the issuance route.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, apiKey string) {
	issue := auth.RequireAPIKey(apiKey, http.HandlerFunc(h.IssueProof))

	mux.HandleFunc("/v1/proofs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListProofs(w, r)
		case http.MethodPost:
			issue.ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/v1/verify/", http.HandlerFunc(h.VerifyProof))
	mux.HandleFunc("/v1/history", h.GetHistory)
	mux.HandleFunc("/v1/issuer/status", h.GetIssuerStatus)
}

// IssueProof handles POST /v1/proofs: multipart upload with a "file" field
// and an optional "label" field.
func (h *Handler) IssueProof(w http.ResponseWriter, r *http.Request) {
	data, meta, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	record, err := h.service.Issue(r.Context(), data, meta)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// VerifyProof handles POST /v1/verify/{txid} with a multipart "file" field.
func (h *Handler) VerifyProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	txID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/verify/"))
	if txID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	if strings.Contains(txID, "/") {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	data, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, err := h.service.Verify(r.Context(), data, txID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	// INVALID is a 200: the comparison happened and produced an answer.
	writeJSON(w, http.StatusOK, result)
}

// ListProofs handles GET /v1/proofs.
func (h *Handler) ListProofs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListProofs(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetHistory handles GET /v1/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	view, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetIssuerStatus handles GET /v1/issuer/status.
func (h *Handler) GetIssuerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := h.service.IssuerStatus(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// readUpload parses the multipart form and returns the uploaded file bytes
// and metadata. On failure it writes the error response and returns ok=false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, notes.Metadata, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+formOverhead)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		} else {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return nil, notes.Metadata{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return nil, notes.Metadata{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		} else {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		}
		return nil, notes.Metadata{}, false
	}
	if int64(len(data)) > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return nil, notes.Metadata{}, false
	}

	meta := notes.Metadata{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     int64(len(data)),
		Label:    r.FormValue("label"),
	}
	return data, meta, true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || limit == 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps service errors to HTTP status codes.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoProofData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, core.ErrConfigurationMissing):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrUpstreamFailure):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("unclassified service error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
