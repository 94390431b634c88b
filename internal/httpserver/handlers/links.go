package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/deps"
	"github.com/HashibulAmin/reward-claim/internal/httpserver/mw"
)

type createLinkRequest struct {
	Title string `json:"title"`
}

type linkResponse struct {
	domain.ClaimLink
	URL        string `json:"url"`
	RewardName string `json:"rewardName"`
}

func toLinkResponse(d deps.Deps, l domain.ClaimLink) linkResponse {
	return linkResponse{ClaimLink: l, URL: d.Links.URL(l.LinkID), RewardName: l.DisplayTitle()}
}

// CreateLink creates a new active link owned by the signed-in admin.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgBadRequest)
			return
		}

		link, err := d.Links.Create(r.Context(), mw.Owner(r.Context()), req.Title)
		if err != nil {
			writeDomainError(d, w, r, err, "Failed to create link. Please try again.")
			return
		}
		writeJSON(w, http.StatusCreated, toLinkResponse(d, *link))
	}
}

// ListLinks returns the signed-in admin's links, newest first.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links, err := d.Links.List(r.Context(), mw.Owner(r.Context()))
		if err != nil {
			writeDomainError(d, w, r, err, "Failed to load links. Please try again.")
			return
		}

		out := make([]linkResponse, 0, len(links))
		for _, l := range links {
			out = append(out, toLinkResponse(d, l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DeactivateLink stops one of the signed-in admin's links from accepting claims.
func DeactivateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Links.Deactivate(r.Context(), mw.Owner(r.Context()), chi.URLParam(r, "linkID"))
		if err != nil {
			writeDomainError(d, w, r, err, "Failed to deactivate link. Please try again.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
