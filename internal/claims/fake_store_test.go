package claims

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/livequery"
)

// fakeStore is an in-memory Store. Subscriptions are plain streams the test
// pushes synthetic snapshots into.
type fakeStore struct {
	mu     sync.Mutex
	clock  time.Time
	links  map[string]domain.ClaimLink
	claims []domain.Claim

	getErr         error
	createClaimErr error
	createLinkErrs []error
	subscribeErr   error

	linkStream  *livequery.Stream[domain.ClaimLink]
	claimStream *livequery.Stream[domain.Claim]
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock: time.Date(2026, time.February, 12, 10, 30, 0, 0, time.UTC),
		links: make(map[string]domain.ClaimLink),
	}
}

func (f *fakeStore) putLink(l domain.ClaimLink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[l.LinkID] = l
}

func (f *fakeStore) claimCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.claims)
}

func (f *fakeStore) GetLink(_ context.Context, linkID string) (*domain.ClaimLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	l, ok := f.links[linkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (f *fakeStore) CreateLink(_ context.Context, link domain.ClaimLink) (*domain.ClaimLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createLinkErrs) > 0 {
		err := f.createLinkErrs[0]
		f.createLinkErrs = f.createLinkErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if _, taken := f.links[link.LinkID]; taken {
		return nil, domain.ErrConflict
	}
	link.CreatedAt = f.clock
	f.links[link.LinkID] = link
	return &link, nil
}

func (f *fakeStore) DeactivateLink(_ context.Context, linkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.links[linkID]
	if !ok {
		return domain.ErrNotFound
	}
	l.IsActive = false
	f.links[linkID] = l
	return nil
}

func (f *fakeStore) ListLinks(_ context.Context, owner string) ([]domain.ClaimLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ClaimLink
	for _, l := range f.links {
		if l.CreatedBy == owner {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateClaim(_ context.Context, c domain.NewClaim) (*domain.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createClaimErr != nil {
		return nil, f.createClaimErr
	}
	f.clock = f.clock.Add(time.Second)
	claim := domain.Claim{
		ClaimID:        fmt.Sprintf("claim-%d", len(f.claims)+1),
		LinkID:         c.LinkID,
		OwnerEmail:     c.OwnerEmail,
		UserName:       c.Form.UserName,
		PickupLocation: c.Form.PickupLocation,
		PickupNumber:   c.Form.PickupNumber,
		PickupDate:     c.Form.PickupDate,
		PickupTimeSlot: c.Form.PickupTimeSlot,
		ClaimedAt:      f.clock,
		Status:         c.Status,
	}
	f.claims = append(f.claims, claim)
	return &claim, nil
}

func (f *fakeStore) ListClaims(_ context.Context, owner string) ([]domain.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Claim
	for _, c := range f.claims {
		if c.OwnerEmail == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) SubscribeLinks(context.Context, string) (*livequery.Stream[domain.ClaimLink], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.linkStream = livequery.New[domain.ClaimLink](nil)
	return f.linkStream, nil
}

func (f *fakeStore) SubscribeClaims(context.Context, string) (*livequery.Stream[domain.Claim], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.claimStream = livequery.New[domain.Claim](nil)
	return f.claimStream, nil
}
