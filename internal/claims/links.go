package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const (
	linkIDLength   = 10
	maxTitleLength = 100
	maxIDAttempts  = 3
)

// NewLinkID returns a url-safe 10 character token.
func NewLinkID() (string, error) {
	return gonanoid.New(linkIDLength)
}

// Links creates and manages an owner's claim links.
type Links struct {
	store   Store
	log     logger.Logger
	baseURL string
	newID   func() (string, error)
}

// NewLinks creates the link service.
func NewLinks(opts Options) *Links {
	opts = opts.withDefaults()
	return &Links{
		store:   opts.Store,
		log:     opts.Logger.With(logger.Component("links")),
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		newID:   opts.NewLinkID,
	}
}

// URL returns the shareable claim URL for linkID.
func (l *Links) URL(linkID string) string {
	return l.baseURL + "/claim/" + linkID
}

// Create stores a new active link owned by owner. title is optional and
// trimmed; titles over 100 characters are rejected with a field error.
func (l *Links) Create(ctx context.Context, owner, title string) (*domain.ClaimLink, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, domain.FieldErrors{"title": "Reward name must be less than 100 characters"}
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := l.newID()
		if err != nil {
			return nil, fmt.Errorf("generate link id: %w", err)
		}

		link, err := l.store.CreateLink(ctx, domain.ClaimLink{
			LinkID:    id,
			CreatedBy: owner,
			IsActive:  true,
			Title:     title,
		})
		if errors.Is(err, domain.ErrConflict) {
			l.log.Warn("link id collision, retrying", logger.String("link_id", id), logger.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, backendErr("create link", err)
		}

		l.log.Info("link created", logger.String("link_id", link.LinkID), logger.String("owner", owner))
		return link, nil
	}
	return nil, backendErr("create link", fmt.Errorf("no free link id after %d attempts", maxIDAttempts))
}

// List returns the owner's links, newest first.
func (l *Links) List(ctx context.Context, owner string) ([]domain.ClaimLink, error) {
	links, err := l.store.ListLinks(ctx, owner)
	if err != nil {
		return nil, backendErr("list links", err)
	}
	return links, nil
}

// Lookup resolves a link for the public claim page. An inactive link is
// returned together with domain.ErrLinkExpired so callers can still show its title.
func (l *Links) Lookup(ctx context.Context, linkID string) (*domain.ClaimLink, error) {
	link, err := l.store.GetLink(ctx, linkID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidLink
	}
	if err != nil {
		return nil, backendErr("get link", err)
	}
	if !link.IsActive {
		return link, domain.ErrLinkExpired
	}
	return link, nil
}

// Deactivate stops a link from accepting claims. Links owned by someone
// else are reported as domain.ErrInvalidLink.
func (l *Links) Deactivate(ctx context.Context, owner, linkID string) error {
	link, err := l.store.GetLink(ctx, linkID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidLink
	}
	if err != nil {
		return backendErr("get link", err)
	}
	if link.CreatedBy != owner {
		return domain.ErrInvalidLink
	}
	if !link.IsActive {
		return nil
	}

	if err := l.store.DeactivateLink(ctx, linkID); err != nil {
		return backendErr("deactivate link", err)
	}
	l.log.Info("link deactivated", logger.String("link_id", linkID), logger.String("owner", owner))
	return nil
}
