package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/goalpace/internal/ctxkeys"
	"github.com/templui/goalpace/internal/ledger"
	"github.com/templui/goalpace/internal/repository"
	"github.com/templui/goalpace/internal/service"
	"github.com/templui/goalpace/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}

// handleError maps domain errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without details.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, ledger.ErrInvalidDelta):
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "delta"})
	case errors.Is(err, repository.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: "goal not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, errorResponse{Error: "goal was modified concurrently, please retry", Retryable: true})
	case errors.Is(err, repository.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, errorResponse{Error: "email already registered", Field: "email"})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, service.ErrArchiveDisabled):
		writeError(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

func badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
}
