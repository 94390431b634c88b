package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const msgSubmitFailed = "Failed to submit claim. Please try again."

type linkStatus string

const (
	linkValid   linkStatus = "valid"
	linkExpired linkStatus = "expired"
	linkInvalid linkStatus = "invalid"
)

type linkStatusResponse struct {
	Status     linkStatus        `json:"status"`
	LinkID     string            `json:"linkId"`
	RewardName string            `json:"rewardName,omitempty"`
	Message    string            `json:"message,omitempty"`
	TimeSlots  []domain.TimeSlot `json:"timeSlots,omitempty"`
}

type claimResponse struct {
	ClaimID        string             `json:"claimId"`
	LinkID         string             `json:"linkId"`
	Status         domain.ClaimStatus `json:"status"`
	PickupDate     string             `json:"pickupDate"`
	PickupTimeSlot domain.TimeSlot    `json:"pickupTimeSlot"`
	ClaimedAt      time.Time          `json:"claimedAt"`
}

// ClaimLink reports whether a shared link can still be claimed.
func ClaimLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "linkID")

		link, err := d.Links.Lookup(r.Context(), id)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, linkStatusResponse{
				Status:     linkValid,
				LinkID:     link.LinkID,
				RewardName: link.Title,
				TimeSlots:  domain.TimeSlots(),
			})
		case errors.Is(err, domain.ErrLinkExpired):
			writeJSON(w, http.StatusGone, linkStatusResponse{
				Status:     linkExpired,
				LinkID:     link.LinkID,
				RewardName: link.Title,
				Message:    msgLinkExpired,
			})
		case errors.Is(err, domain.ErrInvalidLink):
			writeJSON(w, http.StatusNotFound, linkStatusResponse{
				Status:  linkInvalid,
				LinkID:  id,
				Message: msgInvalidLink,
			})
		default:
			writeDomainError(d, w, r, err, "Failed to load reward. Please try again.")
		}
	}
}

// SubmitClaim validates the posted form and records one pending claim.
func SubmitClaim(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "linkID")

		var in domain.ClaimFormInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, msgBadRequest)
			return
		}

		form, errs := domain.ValidateClaimForm(in, d.Now())
		if in.PickupTimeSlot != "" && !domain.TimeSlotID(in.PickupTimeSlot).Valid() {
			if errs == nil {
				errs = domain.FieldErrors{}
			}
			errs[domain.FieldPickupTimeSlot] = "Please select a time slot"
		}
		if len(errs) > 0 {
			d.Logger.Debug("claim form rejected",
				logger.String("link_id", id),
				logger.Int("fields", len(errs)))
			writeDomainError(d, w, r, errs, msgSubmitFailed)
			return
		}

		claim, err := d.Coordinator.Submit(r.Context(), id, form)
		if err != nil {
			writeDomainError(d, w, r, err, msgSubmitFailed)
			return
		}

		slot, _ := domain.LookupTimeSlot(claim.PickupTimeSlot)
		writeJSON(w, http.StatusCreated, claimResponse{
			ClaimID:        claim.ClaimID,
			LinkID:         claim.LinkID,
			Status:         claim.Status,
			PickupDate:     claim.PickupDate,
			PickupTimeSlot: slot,
			ClaimedAt:      claim.ClaimedAt,
		})
	}
}
