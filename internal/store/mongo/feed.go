package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/livequery"
)

// SubscribeLinks streams an owner's links, re-querying on every change event
func (s *Store) SubscribeLinks(ctx context.Context, owner string) (*livequery.Stream[domain.ClaimLink], error) {
	return subscribe(ctx, s.links, ownerFeed("createdBy", owner), func(ctx context.Context) ([]domain.ClaimLink, error) {
		return s.ListLinks(ctx, owner)
	})
}

// SubscribeClaims streams an owner's claims, re-querying on every change event
func (s *Store) SubscribeClaims(ctx context.Context, owner string) (*livequery.Stream[domain.Claim], error) {
	return subscribe(ctx, s.claims, ownerFeed("ownerEmail", owner), func(ctx context.Context) ([]domain.Claim, error) {
		return s.ListClaims(ctx, owner)
	})
}

// ownerFeed matches change events for documents whose ownerField is owner.
func ownerFeed(ownerField, owner string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "fullDocument." + ownerField, Value: owner},
		}}},
	}
}

// subscribe opens the change stream before the first query, so a write landing
// between the two still triggers a refresh.
func subscribe[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, query livequery.Query[T]) (*livequery.Stream[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	cs, err := coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", coll.Name(), err)
	}

	stream := livequery.New[T](cancel)
	notify := make(chan struct{}, 1)

	go func() {
		defer close(notify)
		defer func() { _ = cs.Close(context.Background()) }()
		for cs.Next(ctx) {
			livequery.Signal(notify)
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			stream.Fail(fmt.Errorf("watch %s: %w", coll.Name(), err))
		}
	}()

	go func() {
		defer cancel()
		livequery.Run(ctx, stream, notify, query)
	}()

	return stream, nil
}
