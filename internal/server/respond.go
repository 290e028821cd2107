package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alnah/go-mdstudio"
	"github.com/alnah/go-mdstudio/internal/clipboard"
	"github.com/alnah/go-mdstudio/internal/editor"
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write response", "error", err)
	}
}

// writeError maps err to a status code and writes it as JSON.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, logger, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, editor.ErrUnknownAction),
		errors.Is(err, mdstudio.ErrNeedsRequest),
		errors.Is(err, mdstudio.ErrImport):
		return http.StatusBadRequest
	case errors.Is(err, mdstudio.ErrResetNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, mdstudio.ErrImportTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, mdstudio.ErrInvalidEncoding):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, mdstudio.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, clipboard.ErrCopyFailed),
		errors.Is(err, mdstudio.ErrPrint):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
