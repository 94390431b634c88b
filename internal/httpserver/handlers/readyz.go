package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const readyzPingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Store  string `json:"store"`
	Admins int    `json:"admins"`
}

// Readyz is ready when the store answers a ping and at least one admin is loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Ready: true, Store: "ok"}

		ctx, cancel := context.WithTimeout(r.Context(), readyzPingTimeout)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readyz: store ping failed", logger.Error(err))
			resp.Ready, resp.Store = false, "unavailable"
		}

		if d.Admins != nil {
			resp.Admins = d.Admins.Count()
		}
		if resp.Admins == 0 {
			resp.Ready = false
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
