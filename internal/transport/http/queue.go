package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/FloresRKT/OS-Project/internal/app"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

// QueueService is the reservation-queue surface used by the HTTP layer.
type QueueService interface {
	Join(ctx context.Context, in app.JoinQueueInput) (domain.QueueEntry, error)
	List(ctx context.Context, listingID string) ([]domain.WaitingEntry, error)
	Process(ctx context.Context, listingID string) (app.PromotionResult, error)
	Cancel(ctx context.Context, queueID string) error
}

// HandleJoinQueue serves POST /queue. The position in the body is an advisory
// hint; the server assigns the authoritative position and returns it.
func HandleJoinQueue(svc QueueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req joinQueueRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid start_date format")
			return
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid end_date format")
			return
		}

		entry, err := svc.Join(r.Context(), app.JoinQueueInput{
			ListingID: req.ListingID,
			UserID:    req.UserID,
			Position:  req.Position,
			StartDate: start,
			EndDate:   end,
			TotalCost: req.TotalCost,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := joinQueueResponse{
			QueueID:  entry.ID,
			Position: entry.Position,
			Message:  "Added to queue successfully",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleQueueEntry serves DELETE /queue/{id}: a renter withdrawing from a
// waitlist.
func HandleQueueEntry(svc QueueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "queue" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.Cancel(r.Context(), parts[1]); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Removed from queue"})
	}
}

func serveListingQueue(w http.ResponseWriter, r *http.Request, svc QueueService, listingID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := svc.List(r.Context(), listingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]waitingEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, waitingEntryResponse{
			QueueID:   e.ID,
			ListingID: e.ListingID,
			UserID:    e.UserID,
			UserName:  e.UserName,
			Position:  e.Position,
			StartDate: e.StartDate.Format(dateLayout),
			EndDate:   e.EndDate.Format(dateLayout),
			TotalCost: e.TotalCost,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func serveProcessQueue(w http.ResponseWriter, r *http.Request, svc QueueService, listingID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	res, err := svc.Process(r.Context(), listingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := processQueueResponse{
		Message: "Queue processed successfully",
		RentID:  res.Rental.ID,
		QueueID: res.Entry.ID,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type joinQueueRequest struct {
	ListingID string          `json:"listing_id"`
	UserID    string          `json:"user_id"`
	Position  int             `json:"position"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type joinQueueResponse struct {
	QueueID  string `json:"queue_id"`
	Position int    `json:"position"`
	Message  string `json:"message"`
}

type waitingEntryResponse struct {
	QueueID   string          `json:"queue_id"`
	ListingID string          `json:"listing_id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Position  int             `json:"position"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

type processQueueResponse struct {
	Message string `json:"message"`
	RentID  string `json:"rent_id"`
	QueueID string `json:"queue_id"`
}
