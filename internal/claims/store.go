// Package claims implements claim submission, link management and the
// owner-scoped live view that joins claims with their link titles.
package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/livequery"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// Store is the document-store contract the claim services run against.
//
// Missing documents are reported as domain.ErrNotFound. CreateLink reports
// domain.ErrConflict when the link id is taken. CreateClaim only writes when
// the referenced link still exists and is active, reporting domain.ErrNotFound
// or domain.ErrLinkExpired otherwise.
type Store interface {
	GetLink(ctx context.Context, linkID string) (*domain.ClaimLink, error)
	CreateLink(ctx context.Context, link domain.ClaimLink) (*domain.ClaimLink, error)
	DeactivateLink(ctx context.Context, linkID string) error
	ListLinks(ctx context.Context, owner string) ([]domain.ClaimLink, error)

	CreateClaim(ctx context.Context, claim domain.NewClaim) (*domain.Claim, error)
	ListClaims(ctx context.Context, owner string) ([]domain.Claim, error)

	// SubscribeLinks streams the owner's links, newest first.
	SubscribeLinks(ctx context.Context, owner string) (*livequery.Stream[domain.ClaimLink], error)
	// SubscribeClaims streams the owner's claims ordered by ClaimedAt, newest first.
	SubscribeClaims(ctx context.Context, owner string) (*livequery.Stream[domain.Claim], error)
}

// Options is the explicit session context shared by the claim services.
// It is created once at startup and owned by the caller, which also closes
// the underlying store on shutdown.
type Options struct {
	Store  Store
	Logger logger.Logger

	// PublicBaseURL is the origin shareable links are built on.
	PublicBaseURL string

	// NewLinkID defaults to a 10 character nanoid.
	NewLinkID func() (string, error)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.NewLinkID == nil {
		o.NewLinkID = NewLinkID
	}
	return o
}

// backendErr tags a store failure as ErrBackendUnavailable unless it already
// carries a more specific domain error.
func backendErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrBackendUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
}
