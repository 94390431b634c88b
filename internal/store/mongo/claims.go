package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// CreateClaim writes a claim in a transaction that reads the active link and
// takes its lock, so a concurrent deactivation makes one side conflict and
// retry. The link document itself is only read. The owner is copied from the
// stored link and claimedAt is the server's $$NOW.
func (s *Store) CreateClaim(ctx context.Context, nc domain.NewClaim) (*domain.Claim, error) {
	id := primitive.NewObjectID().Hex()

	res, err := s.inTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.lockLink(sc, nc.LinkID); err != nil {
			return nil, err
		}

		var link domain.ClaimLink
		err := s.links.FindOne(sc, activeLinkFilter(nc.LinkID)).Decode(&link)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Tell a missing link apart from an inactive one.
			if _, getErr := s.GetLink(sc, nc.LinkID); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("link %s: %w", nc.LinkID, domain.ErrLinkExpired)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read link: %w", err)
		}

		_, err = s.claims.UpdateOne(sc,
			bson.M{"_id": id},
			claimUpsert(link.CreatedBy, nc),
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to save claim: %w", err)
		}

		var claim domain.Claim
		if err := s.claims.FindOne(sc, bson.M{"_id": id}).Decode(&claim); err != nil {
			return nil, fmt.Errorf("failed to read back claim: %w", err)
		}
		return &claim, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Claim), nil
}

// claimUpsert builds the pipeline update that fills a new claim document.
func claimUpsert(owner string, nc domain.NewClaim) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "linkId", Value: nc.LinkID},
			{Key: "ownerEmail", Value: owner},
			{Key: "userName", Value: nc.Form.UserName},
			{Key: "pickupLocation", Value: nc.Form.PickupLocation},
			{Key: "pickupNumber", Value: nc.Form.PickupNumber},
			{Key: "pickupDate", Value: nc.Form.PickupDate},
			{Key: "pickupTimeSlot", Value: string(nc.Form.PickupTimeSlot)},
			{Key: "claimedAt", Value: "$$NOW"},
			{Key: "status", Value: string(nc.Status)},
		}}},
	}
}

// ListClaims returns an owner's claims, newest first
func (s *Store) ListClaims(ctx context.Context, owner string) ([]domain.Claim, error) {
	return findAll[domain.Claim](ctx, s.claims, bson.M{"ownerEmail": owner}, "claimedAt")
}
