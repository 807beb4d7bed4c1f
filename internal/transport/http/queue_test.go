package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FloresRKT/OS-Project/internal/app"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

func TestHandleJoinQueue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success returns assigned position",
			body:           `{"listing_id":"l1","user_id":"u1","start_date":"2025-03-10","end_date":"2025-03-13","total_cost":"330"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"position":3`,
		},
		{
			name:           "client hint does not change outcome",
			body:           `{"listing_id":"l1","user_id":"u1","position":99,"start_date":"2025-03-10","end_date":"2025-03-13","total_cost":"330"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"position":3`,
		},
		{
			name:           "invalid json",
			body:           `{"listing_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date",
			body:           `{"listing_id":"l1","user_id":"u1","start_date":"soon","end_date":"2025-03-13","total_cost":"330"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "listing not found",
			body:           `{"listing_id":"l1","user_id":"u1","start_date":"2025-03-10","end_date":"2025-03-13","total_cost":"330"}`,
			serviceErr:     domain.ErrListingNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error",
			body:           `{"listing_id":"l1","user_id":"u1","start_date":"2025-03-10","end_date":"2025-03-13","total_cost":"330"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubQueueService{
				entry: domain.QueueEntry{ID: "q-1", Position: 3, Status: domain.QueueStatusWaiting},
				err:   tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/queue", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleJoinQueue(svc).ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandleQueueEntry_Delete(t *testing.T) {
	t.Parallel()

	t.Run("cancel success", func(t *testing.T) {
		t.Parallel()
		svc := &stubQueueService{}

		req := httptest.NewRequest(http.MethodDelete, "/queue/q-1", nil)
		rec := httptest.NewRecorder()
		HandleQueueEntry(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.cancelledID != "q-1" {
			t.Fatalf("expected cancel of q-1, got %q", svc.cancelledID)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		t.Parallel()
		svc := &stubQueueService{err: domain.ErrQueueEntryNotFound}

		req := httptest.NewRequest(http.MethodDelete, "/queue/q-missing", nil)
		rec := httptest.NewRecorder()
		HandleQueueEntry(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()
		svc := &stubQueueService{}

		req := httptest.NewRequest(http.MethodPost, "/queue/q-1", nil)
		rec := httptest.NewRecorder()
		HandleQueueEntry(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

func TestHandleListing_QueueRoutes(t *testing.T) {
	t.Parallel()

	t.Run("list waiting entries", func(t *testing.T) {
		t.Parallel()
		queue := &stubQueueService{waiting: []domain.WaitingEntry{
			{
				QueueEntry: domain.QueueEntry{
					ID:        "q-1",
					ListingID: "l1",
					UserID:    "u1",
					Position:  1,
					Status:    domain.QueueStatusWaiting,
					StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
					TotalCost: decimal.NewFromInt(330),
				},
				UserName: "Ana Reyes",
			},
		}}

		req := httptest.NewRequest(http.MethodGet, "/listings/l1/queue", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, queue).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"user_name":"Ana Reyes"`, `"position":1`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
		if queue.listedID != "l1" {
			t.Fatalf("expected list for l1, got %q", queue.listedID)
		}
	})

	t.Run("empty queue lists as empty array", func(t *testing.T) {
		t.Parallel()
		queue := &stubQueueService{}

		req := httptest.NewRequest(http.MethodGet, "/listings/l1/queue", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, queue).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Fatalf("expected empty array, got %q", body)
		}
	})

	t.Run("process queue success", func(t *testing.T) {
		t.Parallel()
		queue := &stubQueueService{promotion: app.PromotionResult{
			Rental: domain.Rental{ID: "rent-9", Status: domain.RentalStatusPending},
			Entry:  domain.QueueEntry{ID: "q-1", Status: domain.QueueStatusProcessed},
		}}

		req := httptest.NewRequest(http.MethodPost, "/listings/l1/process-queue", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, queue).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"rent_id":"rent-9"`, `"queue_id":"q-1"`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
	})

	t.Run("process empty queue", func(t *testing.T) {
		t.Parallel()
		queue := &stubQueueService{err: domain.ErrQueueEmpty}

		req := httptest.NewRequest(http.MethodPost, "/listings/l1/process-queue", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, queue).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, `"code":"queue_empty"`) {
			t.Fatalf("expected queue_empty code, got %q", body)
		}
	})

	t.Run("process with GET is rejected", func(t *testing.T) {
		t.Parallel()
		queue := &stubQueueService{}

		req := httptest.NewRequest(http.MethodGet, "/listings/l1/process-queue", nil)
		rec := httptest.NewRecorder()
		HandleListing(&stubListingService{}, queue).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

type stubQueueService struct {
	entry       domain.QueueEntry
	waiting     []domain.WaitingEntry
	promotion   app.PromotionResult
	err         error
	cancelledID string
	listedID    string
}

func (s *stubQueueService) Join(_ context.Context, _ app.JoinQueueInput) (domain.QueueEntry, error) {
	if s.err != nil {
		return domain.QueueEntry{}, s.err
	}
	return s.entry, nil
}

func (s *stubQueueService) List(_ context.Context, listingID string) ([]domain.WaitingEntry, error) {
	s.listedID = listingID
	if s.err != nil {
		return nil, s.err
	}
	return s.waiting, nil
}

func (s *stubQueueService) Process(_ context.Context, _ string) (app.PromotionResult, error) {
	if s.err != nil {
		return app.PromotionResult{}, s.err
	}
	return s.promotion, nil
}

func (s *stubQueueService) Cancel(_ context.Context, queueID string) error {
	s.cancelledID = queueID
	return s.err
}
