package domain

import (
	"testing"
	"time"
)

func TestTitleIndex(t *testing.T) {
	links := []ClaimLink{
		{LinkID: "L1", CreatedBy: "a@x.com", Title: "Gift A", IsActive: true},
		{LinkID: "L2", CreatedBy: "a@x.com", IsActive: true},
	}

	idx := TitleIndex(links)

	if idx["L1"] != "Gift A" {
		t.Errorf("TitleIndex()[L1] = %q, want %q", idx["L1"], "Gift A")
	}
	if idx["L2"] != UntitledReward {
		t.Errorf("TitleIndex()[L2] = %q, want %q", idx["L2"], UntitledReward)
	}
}

func TestJoinClaimsRewardNames(t *testing.T) {
	base := time.Date(2026, time.February, 12, 10, 0, 0, 0, time.UTC)
	links := []ClaimLink{
		{LinkID: "L1", CreatedBy: "a@x.com", Title: "Gift A"},
		{LinkID: "L2", CreatedBy: "a@x.com"},
	}
	claims := []Claim{
		{ClaimID: "c1", LinkID: "L1", OwnerEmail: "a@x.com", ClaimedAt: base},
		{ClaimID: "c2", LinkID: "L2", OwnerEmail: "a@x.com", ClaimedAt: base.Add(time.Minute)},
		{ClaimID: "c3", LinkID: "gone", OwnerEmail: "a@x.com", ClaimedAt: base.Add(-time.Minute)},
	}

	views := JoinClaims(claims, TitleIndex(links))

	want := map[string]string{
		"c1": "Gift A",
		"c2": UntitledReward,
		"c3": UnknownReward,
	}
	if len(views) != len(claims) {
		t.Fatalf("JoinClaims() returned %d views, want %d", len(views), len(claims))
	}
	for _, v := range views {
		if v.RewardName != want[v.ClaimID] {
			t.Errorf("claim %s rewardName = %q, want %q", v.ClaimID, v.RewardName, want[v.ClaimID])
		}
	}
}

func TestJoinClaimsOrdering(t *testing.T) {
	base := time.Date(2026, time.February, 12, 10, 0, 0, 0, time.UTC)
	claims := []Claim{
		{ClaimID: "old", ClaimedAt: base},
		{ClaimID: "tie-a", ClaimedAt: base.Add(time.Hour)},
		{ClaimID: "newest", ClaimedAt: base.Add(2 * time.Hour)},
		{ClaimID: "tie-b", ClaimedAt: base.Add(time.Hour)},
	}

	views := JoinClaims(claims, nil)

	wantOrder := []string{"newest", "tie-a", "tie-b", "old"}
	for i, id := range wantOrder {
		if views[i].ClaimID != id {
			t.Errorf("position %d = %s, want %s", i, views[i].ClaimID, id)
		}
	}

	// Inputs stay untouched.
	if claims[0].ClaimID != "old" || claims[2].ClaimID != "newest" {
		t.Error("JoinClaims() reordered its input slice")
	}
}

func TestJoinClaimsEmpty(t *testing.T) {
	views := JoinClaims(nil, map[string]string{"L1": "Gift A"})
	if views == nil || len(views) != 0 {
		t.Errorf("JoinClaims(nil) = %v, want empty non-nil slice", views)
	}
}
