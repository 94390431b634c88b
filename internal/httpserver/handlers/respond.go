package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HashibulAmin/reward-claim/internal/auth"
	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const (
	msgInvalidLink = "Invalid reward link."
	msgLinkExpired = "This reward link is no longer active."
	msgBadRequest  = "Invalid request body."
	msgFixFields   = "Please correct the highlighted fields."
	msgSignIn      = "Please sign in again."
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 16 << 10

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDomainError maps service errors to responses. backendMsg is the
// retry prompt shown when the store failed.
func writeDomainError(d deps.Deps, w http.ResponseWriter, r *http.Request, err error, backendMsg string) {
	var fields domain.FieldErrors
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msgFixFields, Fields: fields})
	case errors.Is(err, domain.ErrInvalidLink):
		writeError(w, http.StatusNotFound, msgInvalidLink)
	case errors.Is(err, domain.ErrLinkExpired):
		writeError(w, http.StatusGone, msgLinkExpired)
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgSignIn)
	default:
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, backendMsg)
	}
}
