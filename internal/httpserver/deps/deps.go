package deps

import (
	"context"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/auth"
	"github.com/HashibulAmin/reward-claim/internal/claims"
	"github.com/HashibulAmin/reward-claim/internal/index"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time      // for testing, defaults to time.Now
	AllowedCIDRS    []string              // IPs allowed to access healthz/readyz/reload endpoints
	TrustProxy      bool                  // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RequestTimeout  time.Duration         // per-request timeout, not applied to the claim stream
	StreamHeartbeat time.Duration         // SSE keep-alive comment interval
	ClaimRateBurst  int                   // public claim submissions per client IP (bucket size)
	ClaimRatePerMin int                   // public claim submissions per client IP (refill)
	Store           Pinger                // document store, for readiness
	StoreBackend    string                // "redis" or "mongo", reported by healthz
	Links           *claims.Links         // link management
	Coordinator     *claims.Coordinator   // claim submission
	Aggregator      *claims.Aggregator    // joined claim views
	Auth            *auth.Authenticator   // admin login & token checks
	Admins          *index.AdminIndex     // in-memory admin directory
	ReloadTrigger   chan struct{}         // Channel to trigger manual admin directory reload
	Closing         <-chan struct{}       // closed when the server starts shutting down
}

// Now returns the current time using TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
