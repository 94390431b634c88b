package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

type memLinkStore struct {
	mu      sync.Mutex
	links   map[string]domain.ClaimLink
	failIDs map[string]bool
	listErr error
}

func (m *memLinkStore) AllLinks(context.Context) ([]domain.ClaimLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.ClaimLink, 0, len(m.links))
	for _, l := range m.links {
		out = append(out, l)
	}
	return out, nil
}

func (m *memLinkStore) DeactivateLink(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[id] {
		return errors.New("write failed")
	}
	l := m.links[id]
	l.IsActive = false
	m.links[id] = l
	return nil
}

func (m *memLinkStore) active(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[id].IsActive
}

func TestLinkExpirer_Sweep(t *testing.T) {
	log := logger.New("error", false)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	store := &memLinkStore{
		links: map[string]domain.ClaimLink{
			"fresh":    {LinkID: "fresh", IsActive: true, CreatedAt: now.Add(-2 * 24 * time.Hour)},
			"old":      {LinkID: "old", IsActive: true, CreatedAt: now.Add(-40 * 24 * time.Hour)},
			"inactive": {LinkID: "inactive", IsActive: false, CreatedAt: now.Add(-90 * 24 * time.Hour)},
			"no-time":  {LinkID: "no-time", IsActive: true},
			"stuck":    {LinkID: "stuck", IsActive: true, CreatedAt: now.Add(-60 * 24 * time.Hour)},
		},
		failIDs: map[string]bool{"stuck": true},
	}

	le := NewLinkExpirer(store, log, time.Hour, 30*24*time.Hour)
	le.now = func() time.Time { return now }

	expired, err := le.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if expired != 1 {
		t.Errorf("Expected 1 link expired, got %d", expired)
	}
	if store.active("old") {
		t.Error("Old link was not deactivated")
	}
	if !store.active("fresh") {
		t.Error("Fresh link was incorrectly deactivated")
	}
	if !store.active("no-time") {
		t.Error("Link without a creation time was incorrectly deactivated")
	}
}

func TestLinkExpirer_SweepListError(t *testing.T) {
	store := &memLinkStore{listErr: errors.New("unavailable")}
	le := NewLinkExpirer(store, logger.New("error", false), time.Hour, time.Hour)

	if _, err := le.Sweep(context.Background()); err == nil {
		t.Error("Sweep should fail when links cannot be listed")
	}
}

func TestLinkExpirer_StartStop(t *testing.T) {
	now := time.Now()
	store := &memLinkStore{links: map[string]domain.ClaimLink{
		"old": {LinkID: "old", IsActive: true, CreatedAt: now.Add(-2 * time.Hour)},
	}}
	le := NewLinkExpirer(store, logger.New("error", false), time.Hour, time.Hour)

	if err := le.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	le.Stop()

	if store.active("old") {
		t.Error("Start should sweep immediately")
	}
}
