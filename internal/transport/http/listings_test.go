package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FloresRKT/OS-Project/internal/app"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

func TestHandleListings(t *testing.T) {
	t.Parallel()

	t.Run("list active listings", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{summaries: []domain.ListingSummary{
			{
				Listing: domain.Listing{
					ID:          "l1",
					CompanyID:   "c1",
					Street:      "Katipunan Ave",
					TotalSpaces: 4,
					Occupancy:   2,
					RatePerDay:  decimal.NewFromInt(150),
					IsActive:    true,
				},
				CompanyName: "ParkSafe Inc",
			},
		}}

		req := httptest.NewRequest(http.MethodGet, "/listings", nil)
		rec := httptest.NewRecorder()
		HandleListings(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"company_name":"ParkSafe Inc"`, `"occupancy":2`, `"total_spaces":4`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
	})

	t.Run("create listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{listing: domain.Listing{ID: "l1"}}

		body := `{"company_id":"c1","street":"Katipunan Ave","municipality":"Quezon City","zip_code":"1108","total_spaces":4,"rate_per_day":"150"}`
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		HandleListings(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if got := rec.Body.String(); !strings.Contains(got, `"listing_id":"l1"`) {
			t.Fatalf("expected listing id, got %q", got)
		}
	})

	t.Run("create with zero capacity", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{err: domain.ErrInvalidSpaces}

		body := `{"company_id":"c1","street":"Katipunan Ave","municipality":"Quezon City","zip_code":"1108","total_spaces":0,"rate_per_day":"150"}`
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		HandleListings(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleListing_CRUD(t *testing.T) {
	t.Parallel()

	t.Run("get listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{listing: domain.Listing{ID: "l1", TotalSpaces: 4, Occupancy: 1}}

		req := httptest.NewRequest(http.MethodGet, "/listings/l1", nil)
		rec := httptest.NewRecorder()
		HandleListing(svc, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, `"listing_id":"l1"`) {
			t.Fatalf("expected listing in response, got %q", body)
		}
	})

	t.Run("get unknown listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{err: domain.ErrListingNotFound}

		req := httptest.NewRequest(http.MethodGet, "/listings/l-missing", nil)
		rec := httptest.NewRecorder()
		HandleListing(svc, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("update listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{changes: 1}

		req := httptest.NewRequest(http.MethodPut, "/listings/l1", bytes.NewBufferString(`{"rate_per_day":"175"}`))
		rec := httptest.NewRecorder()
		HandleListing(svc, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.patch.RatePerDay == nil || !svc.patch.RatePerDay.Equal(decimal.NewFromInt(175)) {
			t.Fatalf("expected rate patch forwarded, got %v", svc.patch.RatePerDay)
		}
	})

	t.Run("update with occupancy field is rejected", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{}

		req := httptest.NewRequest(http.MethodPut, "/listings/l1", bytes.NewBufferString(`{"occupancy":3}`))
		rec := httptest.NewRecorder()
		HandleListing(svc, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("delete listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubListingService{}

		req := httptest.NewRequest(http.MethodDelete, "/listings/l1", nil)
		rec := httptest.NewRecorder()
		HandleListing(svc, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.deletedID != "l1" {
			t.Fatalf("expected delete of l1, got %q", svc.deletedID)
		}
	})

	t.Run("unknown subresource", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/listings/l1/spaces", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, &stubQueueService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

type stubListingService struct {
	listing   domain.Listing
	summaries []domain.ListingSummary
	owned     []domain.Listing
	changes   int64
	patch     domain.ListingPatch
	deletedID string
	err       error
}

func (s *stubListingService) Create(_ context.Context, _ app.CreateListingInput) (domain.Listing, error) {
	if s.err != nil {
		return domain.Listing{}, s.err
	}
	return s.listing, nil
}

func (s *stubListingService) Get(_ context.Context, _ string) (domain.Listing, error) {
	if s.err != nil {
		return domain.Listing{}, s.err
	}
	return s.listing, nil
}

func (s *stubListingService) List(_ context.Context) ([]domain.ListingSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

func (s *stubListingService) ListByCompany(_ context.Context, _ string) ([]domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.owned, nil
}

func (s *stubListingService) Update(_ context.Context, _ string, patch domain.ListingPatch) (int64, error) {
	s.patch = patch
	if s.err != nil {
		return 0, s.err
	}
	return s.changes, nil
}

func (s *stubListingService) Delete(_ context.Context, listingID string) error {
	s.deletedID = listingID
	return s.err
}
