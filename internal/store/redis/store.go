// Package redis is the Redis backend for links and claims.
//
// Documents are stored as JSON strings. Per-owner sorted sets index them by
// time, and every write publishes the owner's feed channel so subscriptions
// can re-query.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// Store handles Redis operations for links and claims
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store. The caller owns the client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping reports whether Redis answers
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

// reader and clock are satisfied by both *redis.Client and *redis.Tx.
type reader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

type clock interface {
	Time(ctx context.Context) *redis.TimeCmd
}

// now reads the server clock so timestamps do not depend on the caller's host
func now(ctx context.Context, c clock) (time.Time, error) {
	t, err := c.Time(ctx).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read server time: %w", err)
	}
	return t.UTC(), nil
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

// loadMany fetches JSON documents by key, skipping keys that vanished
// between the index read and the fetch.
func loadMany[T any](ctx context.Context, c reader, keys []string) ([]T, error) {
	if len(keys) == 0 {
		return []T{}, nil
	}

	vals, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	out := make([]T, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func loadLink(ctx context.Context, c reader, id string) (*domain.ClaimLink, error) {
	data, err := c.Get(ctx, LinkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	var link domain.ClaimLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return &link, nil
}
