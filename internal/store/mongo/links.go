package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// GetLink retrieves a link by ID
func (s *Store) GetLink(ctx context.Context, id string) (*domain.ClaimLink, error) {
	var link domain.ClaimLink
	if err := s.links.FindOne(ctx, bson.M{"_id": id}).Decode(&link); err != nil {
		return nil, notFound(err, "link", id)
	}
	return &link, nil
}

// CreateLink inserts a new link stamped with the server time. A taken ID is
// reported as domain.ErrConflict.
func (s *Store) CreateLink(ctx context.Context, link domain.ClaimLink) (*domain.ClaimLink, error) {
	ts, err := s.serverTime(ctx)
	if err != nil {
		return nil, err
	}
	link.CreatedAt = ts

	if _, err := s.links.InsertOne(ctx, link); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("link %s: %w", link.LinkID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("failed to save link: %w", err)
	}
	return &link, nil
}

// DeactivateLink marks a link inactive under the link's lock, so it cannot
// interleave with a claim being written for it.
func (s *Store) DeactivateLink(ctx context.Context, id string) error {
	_, err := s.inTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.links.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
		if err != nil {
			return nil, fmt.Errorf("failed to deactivate link: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
		}
		return nil, s.lockLink(sc, id)
	})
	return err
}

// ListLinks returns an owner's links, newest first
func (s *Store) ListLinks(ctx context.Context, owner string) ([]domain.ClaimLink, error) {
	return findAll[domain.ClaimLink](ctx, s.links, bson.M{"createdBy": owner}, "createdAt")
}

// AllLinks returns every link regardless of owner
func (s *Store) AllLinks(ctx context.Context) ([]domain.ClaimLink, error) {
	return findAll[domain.ClaimLink](ctx, s.links, bson.M{}, "createdAt")
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sortField string) ([]T, error) {
	cur, err := coll.Find(ctx, filter, newestFirst(sortField))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}
