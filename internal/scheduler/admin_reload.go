package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/index"
	"github.com/HashibulAmin/reward-claim/internal/logger"
	"github.com/HashibulAmin/reward-claim/internal/sources/admins"
)

// AdminReloader handles periodic reloading of the admins file
type AdminReloader struct {
	loader        *admins.Loader
	mapper        *admins.Mapper
	index         *index.AdminIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewAdminReloader creates a new admin reloader
func NewAdminReloader(
	adminFile string,
	idx *index.AdminIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *AdminReloader {
	return &AdminReloader{
		loader:        admins.NewLoader(adminFile),
		mapper:        admins.NewMapper(),
		index:         idx,
		logger:        log.With(logger.Component("admin-reload")),
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once and then reloads it on every tick or manual trigger
func (ar *AdminReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := ar.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(ar.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ar.Reload(ctx); err != nil {
					ar.logger.Error("failed to reload admins", logger.Error(err))
				}
			case <-ar.manualTrigger:
				ar.logger.Info("manual reload triggered")
				if err := ar.Reload(ctx); err != nil {
					ar.logger.Error("failed to reload admins", logger.Error(err))
				}
			case <-ar.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (ar *AdminReloader) Stop() {
	close(ar.stopCh)
}

// Reload reads the admins file and replaces the index. On any error the
// previous index is kept.
func (ar *AdminReloader) Reload(_ context.Context) error {
	file, err := ar.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}

	loaded, skipped, err := ar.mapper.MapAdmins(file)
	for _, s := range skipped {
		ar.logger.Warn("skipping admin entry",
			logger.String("email", s.Email),
			logger.String("reason", s.Reason))
	}
	if err != nil {
		return fmt.Errorf("failed to map admins: %w", err)
	}

	removed := 0
	for _, old := range ar.index.All() {
		found := false
		for _, a := range loaded {
			if a.ID == old.ID {
				found = true
				break
			}
		}
		if !found {
			removed++
		}
	}

	ar.index.Update(loaded)

	ar.logger.Info("admins reloaded",
		logger.Int("count", len(loaded)),
		logger.Int("skipped", len(skipped)),
		logger.Int("removed", removed))
	return nil
}
