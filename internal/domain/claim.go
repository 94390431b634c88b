package domain

import "time"

const (
	// UntitledReward is shown for links created without a title.
	UntitledReward = "Untitled Reward"
	// UnknownReward is shown for claims whose link is missing from the owner's link set.
	UnknownReward = "Unknown Reward"
)

// ClaimLink represents one shareable reward campaign.
//
// A ClaimLink is uniquely identified by its LinkID and is owned by exactly
// one administrator (CreatedBy). Claims against an inactive link are rejected.
type ClaimLink struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// LinkID is the opaque short token embedded in the shared URL.
	LinkID string `json:"linkId" bson:"_id"`

	// CreatedBy is the owner identity (admin email).
	CreatedBy string `json:"createdBy" bson:"createdBy"`

	// CreatedAt is assigned by the store clock.
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	// ─────────────────────────────
	// State
	// ─────────────────────────────

	// IsActive gates new claims.
	IsActive bool `json:"isActive" bson:"isActive"`

	// Title is the optional reward name shown to recipients and in the dashboard.
	Title string `json:"title,omitempty" bson:"title,omitempty"`
}

// DisplayTitle returns the title or the untitled placeholder.
func (l ClaimLink) DisplayTitle() string {
	if l.Title == "" {
		return UntitledReward
	}
	return l.Title
}

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusCompleted ClaimStatus = "completed"
	ClaimStatusCancelled ClaimStatus = "cancelled"
)

// Claim is a single recipient's pickup request against a ClaimLink.
type Claim struct {
	ClaimID string `json:"claimId" bson:"_id"`
	LinkID  string `json:"linkId" bson:"linkId"`

	// OwnerEmail is copied from the link's CreatedBy when the claim is written.
	// It is never taken from request input.
	OwnerEmail string `json:"ownerEmail" bson:"ownerEmail"`

	UserName       string     `json:"userName" bson:"userName"`
	PickupLocation string     `json:"pickupLocation" bson:"pickupLocation"`
	PickupNumber   string     `json:"pickupNumber" bson:"pickupNumber"`
	PickupDate     string     `json:"pickupDate" bson:"pickupDate"` // YYYY-MM-DD
	PickupTimeSlot TimeSlotID `json:"pickupTimeSlot" bson:"pickupTimeSlot"`

	ClaimedAt time.Time   `json:"claimedAt" bson:"claimedAt"`
	Status    ClaimStatus `json:"status" bson:"status"`
}

// NewClaim is the write model handed to a store. The store assigns
// ClaimID and ClaimedAt.
type NewClaim struct {
	LinkID     string
	OwnerEmail string
	Form       ClaimForm
	Status     ClaimStatus
}

// ClaimView is a claim decorated with the title of its originating link.
type ClaimView struct {
	Claim
	RewardName string `json:"rewardName"`
}
