package handlers

import (
	"net/http"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
)

type healthzResponse struct {
	Status           string     `json:"status"`
	Store            string     `json:"store"`
	UptimeSeconds    float64    `json:"uptime_seconds"`
	AdminsReloadedAt *time.Time `json:"admins_reloaded_at,omitempty"`
	Version          string     `json:"version,omitempty"`
	Commit           string     `json:"commit,omitempty"`
	BuildDate        string     `json:"build_date,omitempty"`
	GoVersion        string     `json:"go_version,omitempty"`
}

// Healthz reports liveness and which store backend is serving. It never
// touches the store itself.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			Store:         d.StoreBackend,
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
		}
		if d.Admins != nil {
			if at := d.Admins.LastReload(); !at.IsZero() {
				resp.AdminsReloadedAt = &at
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
