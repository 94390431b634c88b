package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/mw"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const (
	defaultHeartbeat = 15 * time.Second
	msgLiveFailed    = "Live updates are unavailable. Please refresh."
)

// Claims returns the signed-in admin's claims joined with their reward names.
func Claims(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := d.Aggregator.Snapshot(r.Context(), mw.Owner(r.Context()))
		if err != nil {
			writeDomainError(d, w, r, err, "Failed to load claims. Please try again.")
			return
		}
		if views == nil {
			views = []domain.ClaimView{}
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// ClaimStream pushes the joined claim list as server-sent events.
//
// Every "claims" event carries the complete list. Comment lines keep idle
// proxies from closing the connection. When the live view fails, a single
// "error" event is sent and the stream ends; clients reconnect to resubscribe.
func ClaimStream(d deps.Deps) http.HandlerFunc {
	heartbeat := d.StreamHeartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return func(w http.ResponseWriter, r *http.Request) {
		owner := mw.Owner(r.Context())
		log := d.Logger.With(logger.String("owner", owner))

		ctx, stop := context.WithCancel(r.Context())
		defer stop()
		if d.Closing != nil {
			go func() {
				select {
				case <-d.Closing:
					stop()
				case <-ctx.Done():
				}
			}()
		}

		stream, err := d.Aggregator.Subscribe(ctx, owner)
		if err != nil {
			log.Warn("claim stream: subscribe failed", logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, msgLiveFailed)
			return
		}
		defer stream.Dispose()

		rc := http.NewResponseController(w)
		// the server write timeout would cut long-lived streams
		_ = rc.SetWriteDeadline(time.Time{})

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			log.Debug("claim stream: flush unsupported", logger.Error(err))
			return
		}

		log.Debug("claim stream: opened")
		for {
			waitCtx, cancel := context.WithTimeout(ctx, heartbeat)
			views, err := stream.Next(waitCtx)
			timedOut := waitCtx.Err() != nil
			cancel()

			switch {
			case err == nil:
				err = writeEvent(w, "claims", views)
			case ctx.Err() != nil:
				log.Debug("claim stream: closed")
				return
			case timedOut && stream.Err() == nil:
				_, err = fmt.Fprint(w, ": ping\n\n")
			default:
				log.Warn("claim stream: live view failed", logger.Error(err))
				_ = writeEvent(w, "error", errorResponse{Error: msgLiveFailed})
				_ = rc.Flush()
				return
			}

			if err == nil {
				err = rc.Flush()
			}
			if err != nil {
				log.Debug("claim stream: write failed", logger.Error(err))
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	if items, ok := v.([]domain.ClaimView); ok && items == nil {
		v = []domain.ClaimView{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
