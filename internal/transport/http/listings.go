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

// ListingService is the listing CRUD surface used by the HTTP layer.
type ListingService interface {
	Create(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	Get(ctx context.Context, listingID string) (domain.Listing, error)
	List(ctx context.Context) ([]domain.ListingSummary, error)
	Update(ctx context.Context, listingID string, patch domain.ListingPatch) (int64, error)
	Delete(ctx context.Context, listingID string) error
}

// HandleListings serves GET /listings (active listings with company names) and
// POST /listings.
func HandleListings(svc ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			summaries, err := svc.List(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]listingSummaryResponse, 0, len(summaries))
			for _, s := range summaries {
				resp = append(resp, listingSummaryResponse{
					listingResponse: listingToResponse(s.Listing),
					CompanyName:     s.CompanyName,
				})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)

		case http.MethodPost:
			var req createListingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			listing, err := svc.Create(r.Context(), app.CreateListingInput{
				CompanyID:    req.CompanyID,
				UnitNumber:   req.UnitNumber,
				Street:       req.Street,
				Barangay:     req.Barangay,
				Municipality: req.Municipality,
				Region:       req.Region,
				ZipCode:      req.ZipCode,
				TotalSpaces:  req.TotalSpaces,
				RatePerDay:   req.RatePerDay,
				Description:  req.Description,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(createListingResponse{
				ListingID: listing.ID,
				Message:   "Listing created successfully",
			})

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleListing dispatches /listings/{id}, /listings/{id}/queue and
// /listings/{id}/process-queue.
func HandleListing(listings ListingService, queue QueueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, sub, ok := parseListingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch sub {
		case "queue":
			serveListingQueue(w, r, queue, listingID)
			return
		case "process-queue":
			serveProcessQueue(w, r, queue, listingID)
			return
		}

		switch r.Method {
		case http.MethodGet:
			listing, err := listings.Get(r.Context(), listingID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(listingToResponse(listing))

		case http.MethodPut:
			var req updateListingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			changes, err := listings.Update(r.Context(), listingID, domain.ListingPatch{
				UnitNumber:   req.UnitNumber,
				Street:       req.Street,
				Barangay:     req.Barangay,
				Municipality: req.Municipality,
				Region:       req.Region,
				ZipCode:      req.ZipCode,
				RatePerDay:   req.RatePerDay,
				Description:  req.Description,
				IsActive:     req.IsActive,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(updateListingResponse{
				ListingID: listingID,
				Message:   "Listing updated successfully",
				Changes:   changes,
			})

		case http.MethodDelete:
			if err := listings.Delete(r.Context(), listingID); err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Listing deleted successfully"})

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// parseListingPath splits /listings/{id} or /listings/{id}/{sub} and returns
// the id and the optional trailing segment.
func parseListingPath(path string) (listingID, sub string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "listings" && parts[1] != "":
		return parts[1], "", true
	case len(parts) == 3 && parts[0] == "listings" && parts[1] != "" && (parts[2] == "queue" || parts[2] == "process-queue"):
		return parts[1], parts[2], true
	default:
		return "", "", false
	}
}

type createListingRequest struct {
	CompanyID    string          `json:"company_id"`
	UnitNumber   string          `json:"unit_number"`
	Street       string          `json:"street"`
	Barangay     string          `json:"barangay"`
	Municipality string          `json:"municipality"`
	Region       string          `json:"region"`
	ZipCode      string          `json:"zip_code"`
	TotalSpaces  int             `json:"total_spaces"`
	RatePerDay   decimal.Decimal `json:"rate_per_day"`
	Description  string          `json:"description"`
}

type updateListingRequest struct {
	UnitNumber   *string          `json:"unit_number"`
	Street       *string          `json:"street"`
	Barangay     *string          `json:"barangay"`
	Municipality *string          `json:"municipality"`
	Region       *string          `json:"region"`
	ZipCode      *string          `json:"zip_code"`
	RatePerDay   *decimal.Decimal `json:"rate_per_day"`
	Description  *string          `json:"description"`
	IsActive     *bool            `json:"is_active"`
}

type createListingResponse struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
}

type updateListingResponse struct {
	ListingID string `json:"listing_id"`
	Message   string `json:"message"`
	Changes   int64  `json:"changes"`
}

type listingResponse struct {
	ListingID    string          `json:"listing_id"`
	CompanyID    string          `json:"company_id"`
	UnitNumber   string          `json:"unit_number"`
	Street       string          `json:"street"`
	Barangay     string          `json:"barangay"`
	Municipality string          `json:"municipality"`
	Region       string          `json:"region"`
	ZipCode      string          `json:"zip_code"`
	TotalSpaces  int             `json:"total_spaces"`
	Occupancy    int             `json:"occupancy"`
	RatePerDay   decimal.Decimal `json:"rate_per_day"`
	Description  string          `json:"description"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

type listingSummaryResponse struct {
	listingResponse
	CompanyName string `json:"company_name"`
}

func listingToResponse(l domain.Listing) listingResponse {
	return listingResponse{
		ListingID:    l.ID,
		CompanyID:    l.CompanyID,
		UnitNumber:   l.UnitNumber,
		Street:       l.Street,
		Barangay:     l.Barangay,
		Municipality: l.Municipality,
		Region:       l.Region,
		ZipCode:      l.ZipCode,
		TotalSpaces:  l.TotalSpaces,
		Occupancy:    l.Occupancy,
		RatePerDay:   l.RatePerDay,
		Description:  l.Description,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
	}
}
