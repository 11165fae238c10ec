package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adpress/internal/content"
	"adpress/internal/listing"
	"adpress/internal/metrics"
	"adpress/internal/models"
	"adpress/internal/slug"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
}

// Success bodies wrap the resource under its name. Writes add a message.

type postEnvelope struct {
	Message string       `json:"message,omitempty"`
	Post    *models.Post `json:"post"`
}

type categoryEnvelope struct {
	Message  string           `json:"message,omitempty"`
	Category *models.Category `json:"category"`
}

type categoriesEnvelope struct {
	Categories []models.Category `json:"categories"`
}

type adEnvelope struct {
	Message string     `json:"message,omitempty"`
	Ad      *models.Ad `json:"ad"`
}

type adsEnvelope struct {
	Ads []models.Ad `json:"ads"`
}

type metricsEnvelope struct {
	Metrics *models.AdMetrics `json:"metrics"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes data as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error onto an HTTP response. what names
// the resource for not-found messages, e.g. "Post".
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, content.ErrNotFound), errors.Is(err, metrics.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, content.ErrInvalid):
		writeError(w, http.StatusBadRequest, detail(err, content.ErrInvalid))
	case errors.Is(err, listing.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, "Invalid pagination parameters")
	case errors.Is(err, slug.ErrTaken):
		writeError(w, http.StatusConflict, "Slug already in use, please retry")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// detail returns err's message without the sentinel prefix.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// decodeJSON reads the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// bind decodes and validates a JSON request body.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if details := validate(dst); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: details})
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, writing a 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Validation failed",
			Details: []fieldError{{Field: "id", Message: "must be a valid UUID"}},
		})
		return uuid.Nil, false
	}
	return id, true
}
