package handlers

import (
	"net/http"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// TimeSlots serves the fixed pickup windows.
func TimeSlots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.TimeSlots())
	}
}
