package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/HashibulAmin/reward-claim/internal/auth"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for a session token.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgBadRequest)
			return
		}

		session, err := d.Auth.Login(strings.TrimSpace(req.Email), req.Password)
		if errors.Is(err, auth.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		if err != nil {
			writeDomainError(d, w, r, err, "Sign in failed. Please try again.")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}
