// Package respond writes JSON bodies and maps service errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// File writes data as a download.
func File(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write file response", "error", err)
	}
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: apperr.CodeValidation})
}

// Error writes err with the status for its kind. Internal errors are logged and hidden.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	JSON(w, status, errorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}

func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidState, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindDownstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
