package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/handlers"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/mw"
)

func init() { Register(registerPublic) }

// registerPublic wires the recipient-facing claim page API.
func registerPublic(r chi.Router, d deps.Deps) {
	r = r.With(requestTimeout(d))

	r.Get("/api/timeslots", handlers.TimeSlots())
	r.Get("/api/claim/{linkID}", handlers.ClaimLink(d))
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.ClaimRateBurst,
		RefillPerMin: d.ClaimRatePerMin,
		MaxEntries:   10_000,
		TrustProxy:   d.TrustProxy,
	}, d.Logger)).Post("/api/claim/{linkID}", handlers.SubmitClaim(d))
}
