package redis

import (
	"context"
	"fmt"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/livequery"
)

// SubscribeLinks streams an owner's links, re-querying on every change
func (s *Store) SubscribeLinks(ctx context.Context, owner string) (*livequery.Stream[domain.ClaimLink], error) {
	return subscribe(ctx, s, LinkFeedChannel(owner), func(ctx context.Context) ([]domain.ClaimLink, error) {
		return s.ListLinks(ctx, owner)
	})
}

// SubscribeClaims streams an owner's claims, re-querying on every change
func (s *Store) SubscribeClaims(ctx context.Context, owner string) (*livequery.Stream[domain.Claim], error) {
	return subscribe(ctx, s, ClaimFeedChannel(owner), func(ctx context.Context) ([]domain.Claim, error) {
		return s.ListClaims(ctx, owner)
	})
}

// subscribe joins channel before running the first query, so a write landing
// between the two still triggers a refresh.
func subscribe[T any](ctx context.Context, s *Store, channel string, query livequery.Query[T]) (*livequery.Stream[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	sub := s.client.Subscribe(ctx, channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		cancel()
		return nil, fmt.Errorf("redis subscribe %s: %w", channel, err)
	}

	stream := livequery.New[T](cancel)
	notify := make(chan struct{}, 1)

	// a dropped connection fails the stream
	go func() {
		defer close(notify)
		for {
			if _, err := sub.ReceiveMessage(ctx); err != nil {
				if ctx.Err() == nil {
					stream.Fail(fmt.Errorf("redis subscribe %s: %w", channel, err))
				}
				return
			}
			livequery.Signal(notify)
		}
	}()

	go func() {
		defer func() { _ = sub.Close() }()
		defer cancel()
		livequery.Run(ctx, stream, notify, query)
	}()

	return stream, nil
}
