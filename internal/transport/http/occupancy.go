package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/FloresRKT/OS-Project/internal/app"
)

// RentalTransitioner is the minimal interface needed for check-in/check-out.
type RentalTransitioner interface {
	CheckIn(ctx context.Context, rentalID string) (app.TransitionResult, error)
	CheckOut(ctx context.Context, rentalID string) (app.TransitionResult, error)
}

// HandleRentalTransition serves POST /rentals/{id}/check-in and
// POST /rentals/{id}/check-out.
func HandleRentalTransition(svc RentalTransitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		rentalID, action, ok := parseTransitionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var (
			res app.TransitionResult
			err error
		)
		switch action {
		case "check-in":
			res, err = svc.CheckIn(r.Context(), rentalID)
		case "check-out":
			res, err = svc.CheckOut(r.Context(), rentalID)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := transitionResponse{
			RentID:    res.RentalID,
			ListingID: res.ListingID,
			Occupancy: res.Occupancy,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func parseTransitionPath(path string) (rentalID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "rentals" || parts[1] == "" {
		return "", "", false
	}
	if parts[2] != "check-in" && parts[2] != "check-out" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type transitionResponse struct {
	RentID    string `json:"rent_id"`
	ListingID string `json:"listing_id"`
	Occupancy int    `json:"occupancy"`
}
