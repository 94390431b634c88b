package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// GetLink retrieves a link by ID
func (s *Store) GetLink(ctx context.Context, id string) (*domain.ClaimLink, error) {
	return loadLink(ctx, s.client, id)
}

// CreateLink stores a new link, stamped with the server time. An ID that is
// already taken is reported as domain.ErrConflict.
func (s *Store) CreateLink(ctx context.Context, link domain.ClaimLink) (*domain.ClaimLink, error) {
	ts, err := now(ctx, s.client)
	if err != nil {
		return nil, err
	}
	link.CreatedAt = ts

	data, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal link: %w", err)
	}

	ok, err := s.client.SetNX(ctx, LinkKey(link.LinkID), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("link %s: %w", link.LinkID, domain.ErrConflict)
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, OwnerLinksKey(link.CreatedBy), redis.Z{Score: score(ts), Member: link.LinkID})
	pipe.SAdd(ctx, AllLinksKey(), link.LinkID)
	pipe.Publish(ctx, LinkFeedChannel(link.CreatedBy), link.LinkID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to index link: %w", err)
	}

	return &link, nil
}

// DeactivateLink marks a link inactive. Concurrent writers to the same link
// are retried.
func (s *Store) DeactivateLink(ctx context.Context, id string) error {
	key := LinkKey(id)

	update := func(tx *redis.Tx) error {
		link, err := loadLink(ctx, tx, id)
		if err != nil {
			return err
		}
		if !link.IsActive {
			return nil
		}
		link.IsActive = false

		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Publish(ctx, LinkFeedChannel(link.CreatedBy), id)
			return nil
		})
		return err
	}

	return s.watch(ctx, update, key)
}

// ListLinks returns an owner's links, newest first
func (s *Store) ListLinks(ctx context.Context, owner string) ([]domain.ClaimLink, error) {
	ids, err := s.client.ZRevRange(ctx, OwnerLinksKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}
	return loadMany[domain.ClaimLink](ctx, s.client, linkKeys(ids))
}

// AllLinks returns every link regardless of owner
func (s *Store) AllLinks(ctx context.Context) ([]domain.ClaimLink, error) {
	ids, err := s.client.SMembers(ctx, AllLinksKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}
	return loadMany[domain.ClaimLink](ctx, s.client, linkKeys(ids))
}

func linkKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LinkKey(id)
	}
	return keys
}

const maxWatchAttempts = 5

// watch runs fn in an optimistic transaction over keys, retrying when a
// watched key changes underneath it.
func (s *Store) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("transaction on %v: too much contention", keys)
}
