package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/handlers"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

const (
	loginBurst  = 5
	loginPerMin = 5
)

func registerAdmin(r chi.Router, d deps.Deps) {
	r.With(
		requestTimeout(d),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:        loginBurst,
			RefillPerMin: loginPerMin,
			MaxEntries:   10_000,
			TrustProxy:   d.TrustProxy,
		}, d.Logger),
	).Post("/api/auth/login", handlers.Login(d))

	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/api/admin/reload", handlers.Reload(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin(d.Auth, d.Logger))

		// no request timeout: the stream lives as long as the client
		r.Get("/api/admin/claims/stream", handlers.ClaimStream(d))

		r.Group(func(r chi.Router) {
			r.Use(requestTimeout(d))
			r.Post("/api/admin/links", handlers.CreateLink(d))
			r.Get("/api/admin/links", handlers.ListLinks(d))
			r.Post("/api/admin/links/{linkID}/deactivate", handlers.DeactivateLink(d))
			r.Get("/api/admin/claims", handlers.Claims(d))
		})
	})
}
