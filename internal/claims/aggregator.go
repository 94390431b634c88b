package claims

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/livequery"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// Aggregator publishes an owner's claims joined with their link titles.
type Aggregator struct {
	store Store
	log   logger.Logger
}

// NewAggregator creates a claim aggregator.
func NewAggregator(opts Options) *Aggregator {
	opts = opts.withDefaults()
	return &Aggregator{
		store: opts.Store,
		log:   opts.Logger.With(logger.Component("aggregator")),
	}
}

// Snapshot returns the owner's joined claims once, without subscribing.
func (a *Aggregator) Snapshot(ctx context.Context, owner string) ([]domain.ClaimView, error) {
	links, err := a.store.ListLinks(ctx, owner)
	if err != nil {
		return nil, backendErr("list links", err)
	}
	claims, err := a.store.ListClaims(ctx, owner)
	if err != nil {
		return nil, backendErr("list claims", err)
	}
	return domain.JoinClaims(claims, domain.TitleIndex(links)), nil
}

// joinInput is one update from either source subscription.
type joinInput struct {
	titles     map[string]string // set for link updates
	claims     []domain.Claim    // set for claim updates
	fromClaims bool
}

// Subscribe opens the owner's link and claim subscriptions and returns a
// stream of joined views, republished in full whenever either source changes.
// The first snapshot is published once the claim set is known; a link update
// arriving later replaces the titles of every entry.
//
// A failure of either source puts the returned stream in its terminal error
// state (wrapping domain.ErrBackendUnavailable); there is no internal retry.
// Disposing the returned stream closes both source subscriptions.
func (a *Aggregator) Subscribe(ctx context.Context, owner string) (*livequery.Stream[domain.ClaimView], error) {
	ctx, cancel := context.WithCancel(ctx)

	links, err := a.store.SubscribeLinks(ctx, owner)
	if err != nil {
		cancel()
		return nil, backendErr("subscribe links", err)
	}
	claims, err := a.store.SubscribeClaims(ctx, owner)
	if err != nil {
		links.Dispose()
		cancel()
		return nil, backendErr("subscribe claims", err)
	}

	out := livequery.New[domain.ClaimView](cancel)
	log := a.log.With(logger.String("owner", owner))

	g, gctx := errgroup.WithContext(ctx)
	inputs := make(chan joinInput)

	g.Go(func() error {
		for {
			items, err := links.Next(gctx)
			if err != nil {
				return err
			}
			if !send(gctx, inputs, joinInput{titles: domain.TitleIndex(items)}) {
				return gctx.Err()
			}
		}
	})
	g.Go(func() error {
		for {
			items, err := claims.Next(gctx)
			if err != nil {
				return err
			}
			if !send(gctx, inputs, joinInput{claims: items, fromClaims: true}) {
				return gctx.Err()
			}
		}
	})
	g.Go(func() error {
		var (
			titles     map[string]string
			current    []domain.Claim
			haveClaims bool
		)
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case in := <-inputs:
				if in.fromClaims {
					current, haveClaims = in.claims, true
				} else {
					titles = in.titles
				}
				if !haveClaims {
					continue
				}
				if !out.Push(domain.JoinClaims(current, titles)) {
					return nil
				}
			}
		}
	})

	go func() {
		err := g.Wait()
		links.Dispose()
		claims.Dispose()
		if err != nil && ctx.Err() == nil && !errors.Is(err, livequery.ErrDisposed) {
			log.Warn("claim view subscription failed", logger.Error(err))
			out.Fail(backendErr("claim view", err))
		}
		cancel()
	}()

	log.Debug("claim view subscribed")
	return out, nil
}

func send(ctx context.Context, ch chan<- joinInput, in joinInput) bool {
	select {
	case ch <- in:
		return true
	case <-ctx.Done():
		return false
	}
}
