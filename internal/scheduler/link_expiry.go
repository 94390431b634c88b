package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// LinkStore is the subset of a store the expiry sweeper needs
type LinkStore interface {
	AllLinks(ctx context.Context) ([]domain.ClaimLink, error)
	DeactivateLink(ctx context.Context, linkID string) error
}

// LinkExpirer deactivates links older than a maximum age
type LinkExpirer struct {
	store    LinkStore
	logger   logger.Logger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewLinkExpirer creates a new link expirer. maxAge must be positive.
func NewLinkExpirer(
	store LinkStore,
	log logger.Logger,
	interval time.Duration,
	maxAge time.Duration,
) *LinkExpirer {
	return &LinkExpirer{
		store:    store,
		logger:   log.With(logger.Component("link-expiry")),
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (le *LinkExpirer) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := le.Sweep(ctx); err != nil {
		le.logger.Warn("initial link expiry sweep failed", logger.Error(err))
	}

	ticker := time.NewTicker(le.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := le.Sweep(ctx); err != nil {
					le.logger.Error("link expiry sweep failed", logger.Error(err))
				}
			case <-le.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper
func (le *LinkExpirer) Stop() {
	close(le.stopCh)
}

// Sweep deactivates every active link created more than maxAge ago and
// returns how many were deactivated. A failure on one link does not stop the sweep.
func (le *LinkExpirer) Sweep(ctx context.Context) (int, error) {
	links, err := le.store.AllLinks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list links: %w", err)
	}

	now := le.now()
	expired := 0

	for _, link := range links {
		if !link.IsActive || link.CreatedAt.IsZero() {
			continue
		}

		age := now.Sub(link.CreatedAt)
		if age < le.maxAge {
			continue
		}

		if err := le.store.DeactivateLink(ctx, link.LinkID); err != nil {
			le.logger.Warn("failed to deactivate expired link",
				logger.String("link_id", link.LinkID),
				logger.Error(err))
			continue
		}

		le.logger.Info("link expired",
			logger.String("link_id", link.LinkID),
			logger.String("owner", link.CreatedBy),
			logger.Duration("age", age))
		expired++
	}

	if expired == 0 {
		le.logger.Debug("no links to expire")
	}
	return expired, nil
}
