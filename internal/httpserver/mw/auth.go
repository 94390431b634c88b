package mw

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/HashibulAmin/reward-claim/internal/logger"
)

type (
	ownerKey struct{}
	infoKey  struct{}
)

// requestInfo is shared with the access log, which only sees the outer request.
type requestInfo struct {
	owner string
}

// Authorizer resolves a bearer token to an admin email.
type Authorizer interface {
	Authorize(token string) (string, error)
}

// Owner returns the authenticated admin email, or "" for anonymous requests.
func Owner(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey{}).(string)
	return v
}

// WithOwner stores an admin email in ctx.
func WithOwner(ctx context.Context, owner string) context.Context {
	if info, ok := ctx.Value(infoKey{}).(*requestInfo); ok {
		info.owner = owner
	}
	return context.WithValue(ctx, ownerKey{}, owner)
}

// RequireAdmin rejects requests without a valid admin token with 401.
// The token is read from "Authorization: Bearer" or, for EventSource
// clients that cannot set headers, from the access_token query parameter.
func RequireAdmin(a Authorizer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			owner, err := a.Authorize(token)
			if err != nil {
				log.Debug("RequireAdmin: token rejected", logger.Error(err))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="reward-claim"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Please sign in again."})
}
