package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// CreateClaim writes a claim only if its link still exists and is active at
// commit time. The owner is copied from the stored link and the timestamp
// comes from the server clock.
func (s *Store) CreateClaim(ctx context.Context, nc domain.NewClaim) (*domain.Claim, error) {
	linkKey := LinkKey(nc.LinkID)
	id := uuid.NewString()

	var created *domain.Claim
	write := func(tx *redis.Tx) error {
		link, err := loadLink(ctx, tx, nc.LinkID)
		if err != nil {
			return err
		}
		if !link.IsActive {
			return fmt.Errorf("link %s: %w", nc.LinkID, domain.ErrLinkExpired)
		}

		ts, err := now(ctx, tx)
		if err != nil {
			return err
		}

		claim := domain.Claim{
			ClaimID:        id,
			LinkID:         nc.LinkID,
			OwnerEmail:     link.CreatedBy,
			UserName:       nc.Form.UserName,
			PickupLocation: nc.Form.PickupLocation,
			PickupNumber:   nc.Form.PickupNumber,
			PickupDate:     nc.Form.PickupDate,
			PickupTimeSlot: nc.Form.PickupTimeSlot,
			ClaimedAt:      ts,
			Status:         nc.Status,
		}
		data, err := json.Marshal(claim)
		if err != nil {
			return fmt.Errorf("failed to marshal claim: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ClaimKey(id), data, 0)
			pipe.ZAdd(ctx, OwnerClaimsKey(claim.OwnerEmail), redis.Z{Score: score(ts), Member: id})
			pipe.Publish(ctx, ClaimFeedChannel(claim.OwnerEmail), id)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to save claim: %w", err)
		}

		created = &claim
		return nil
	}

	if err := s.watch(ctx, write, linkKey); err != nil {
		return nil, err
	}
	return created, nil
}

// ListClaims returns an owner's claims, newest first
func (s *Store) ListClaims(ctx context.Context, owner string) ([]domain.Claim, error) {
	ids, err := s.client.ZRevRange(ctx, OwnerClaimsKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get claim IDs: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ClaimKey(id)
	}
	return loadMany[domain.Claim](ctx, s.client, keys)
}
