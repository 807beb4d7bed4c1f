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

const dateLayout = "2006-01-02"

// RentalService is the full rental surface used by the rent endpoints.
type RentalService interface {
	Create(ctx context.Context, in app.CreateRentalInput) (domain.Rental, error)
	Get(ctx context.Context, rentalID string) (domain.Rental, error)
	Update(ctx context.Context, rentalID string, in app.UpdateRentalInput) (app.UpdateRentalResult, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RentalListItem, error)
}

// HandleCreateRental serves POST /rents.
func HandleCreateRental(svc RentalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createRentalRequest
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

		rental, err := svc.Create(r.Context(), app.CreateRentalInput{
			OwnerID:       req.OwnerID,
			RenterID:      req.RenterID,
			ListingID:     req.ListingID,
			PlateNumber:   req.PlateNumber,
			StartDate:     start,
			EndDate:       end,
			TotalCost:     req.TotalCost,
			RemainingCost: req.RemainingCost,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(createRentalResponse{
			RentID:  rental.ID,
			Message: "Rental created successfully",
		})
	}
}

// HandleRental serves GET /rents/{id} and PUT /rents/{id}.
func HandleRental(svc RentalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rentalID, ok := parseRentPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			rental, err := svc.Get(r.Context(), rentalID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rentalToResponse(rental))
		case http.MethodPut:
			var req updateRentalRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			in := app.UpdateRentalInput{RemainingCost: req.RemainingCost}
			if req.Status != nil {
				status := domain.RentalStatus(*req.Status)
				in.Status = &status
			}
			var err error
			if in.CheckInTime, err = parseOptionalTime(req.CheckInTime); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid check_in_time format")
				return
			}
			if in.CheckOutTime, err = parseOptionalTime(req.CheckOutTime); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid check_out_time format")
				return
			}

			res, err := svc.Update(r.Context(), rentalID, in)
			if err != nil {
				writeDomainError(w, err)
				return
			}

			resp := updateRentalResponse{
				RentID:    res.RentalID,
				Message:   "Rental updated successfully",
				Changes:   res.Changes,
				Occupancy: res.Occupancy,
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleUserRentals serves GET /user-rentals/{id}: a renter's rental history
// with listing location and party names.
func HandleUserRentals(svc RentalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "user-rentals" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		items, err := svc.ListByUser(r.Context(), parts[1])
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]rentalListItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, rentalListItemResponse{
				rentalResponse: rentalToResponse(item.Rental),
				UnitNumber:     item.UnitNumber,
				Street:         item.Street,
				Municipality:   item.Municipality,
				RenterName:     item.RenterName,
				OwnerName:      item.OwnerName,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func parseRentPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "rents" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

type createRentalRequest struct {
	OwnerID       string           `json:"owner_id"`
	RenterID      string           `json:"renter_id"`
	ListingID     string           `json:"listing_id"`
	PlateNumber   string           `json:"plate_number"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	RemainingCost *decimal.Decimal `json:"remaining_cost"`
}

type createRentalResponse struct {
	RentID  string `json:"rent_id"`
	Message string `json:"message"`
}

type updateRentalRequest struct {
	Status        *string          `json:"status"`
	RemainingCost *decimal.Decimal `json:"remaining_cost"`
	CheckInTime   *string          `json:"check_in_time"`
	CheckOutTime  *string          `json:"check_out_time"`
}

type updateRentalResponse struct {
	RentID    string `json:"rent_id"`
	Message   string `json:"message"`
	Changes   int64  `json:"changes"`
	Occupancy *int   `json:"occupancy,omitempty"`
}

type rentalResponse struct {
	RentID        string          `json:"rent_id"`
	OwnerID       string          `json:"owner_id"`
	RenterID      string          `json:"renter_id"`
	ListingID     string          `json:"listing_id"`
	PlateNumber   string          `json:"plate_number"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	RemainingCost decimal.Decimal `json:"remaining_cost"`
	Status        string          `json:"status"`
	CheckInTime   *time.Time      `json:"check_in_time"`
	CheckOutTime  *time.Time      `json:"check_out_time"`
	SourceQueueID *string         `json:"source_queue_id,omitempty"`
}

type rentalListItemResponse struct {
	rentalResponse
	UnitNumber   string `json:"unit_number"`
	Street       string `json:"street"`
	Municipality string `json:"municipality"`
	RenterName   string `json:"renter_name"`
	OwnerName    string `json:"owner_name"`
}

func rentalToResponse(rental domain.Rental) rentalResponse {
	return rentalResponse{
		RentID:        rental.ID,
		OwnerID:       rental.OwnerID,
		RenterID:      rental.RenterID,
		ListingID:     rental.ListingID,
		PlateNumber:   rental.PlateNumber,
		StartDate:     rental.StartDate.Format(dateLayout),
		EndDate:       rental.EndDate.Format(dateLayout),
		TotalCost:     rental.TotalCost,
		RemainingCost: rental.RemainingCost,
		Status:        string(rental.Status),
		CheckInTime:   rental.CheckInTime,
		CheckOutTime:  rental.CheckOutTime,
		SourceQueueID: rental.SourceQueueID,
	}
}
