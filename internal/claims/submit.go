package claims

import (
	"context"
	"errors"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// Coordinator authorizes a validated claim against the current link state
// and persists it.
type Coordinator struct {
	store Store
	log   logger.Logger
}

// NewCoordinator creates a submission coordinator.
func NewCoordinator(opts Options) *Coordinator {
	opts = opts.withDefaults()
	return &Coordinator{
		store: opts.Store,
		log:   opts.Logger.With(logger.Component("submit")),
	}
}

// Submit writes exactly one pending claim for linkID.
//
// It fails with domain.ErrInvalidLink when the link does not exist,
// domain.ErrLinkExpired when it is inactive, and an error wrapping
// domain.ErrBackendUnavailable when the store cannot be reached. The owner of
// the new claim is always the link's creator.
//
// The link check here gives fast feedback only. The store's guarded write and
// its access rules are the enforcement point: a link deactivated between the
// read and the write is rejected there.
func (c *Coordinator) Submit(ctx context.Context, linkID string, form domain.ClaimForm) (*domain.Claim, error) {
	link, err := c.store.GetLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidLink
		}
		c.log.Warn("failed to read link", logger.String("link_id", linkID), logger.Error(err))
		return nil, backendErr("get link", err)
	}
	if !link.IsActive {
		return nil, domain.ErrLinkExpired
	}

	claim, err := c.store.CreateClaim(ctx, domain.NewClaim{
		LinkID:     link.LinkID,
		OwnerEmail: link.CreatedBy,
		Form:       form,
		Status:     domain.ClaimStatusPending,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLinkExpired):
		c.log.Info("link deactivated during submission", logger.String("link_id", linkID))
		return nil, domain.ErrLinkExpired
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrInvalidLink
	default:
		c.log.Warn("failed to create claim", logger.String("link_id", linkID), logger.Error(err))
		return nil, backendErr("create claim", err)
	}

	c.log.Info("claim submitted",
		logger.String("link_id", link.LinkID),
		logger.String("claim_id", claim.ClaimID),
		logger.String("slot", string(claim.PickupTimeSlot)))
	return claim, nil
}
