package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

// Walks a fully booked two-space listing through rejection, queueing,
// check-out and promotion, with the rental and queue services sharing one
// store the way they share one database.
func TestFullListingQueueFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	ctx := context.Background()

	store := newMemStore()
	store.listings["listing-1"] = &domain.Listing{ID: "listing-1", CompanyID: "company-1", TotalSpaces: 2, Occupancy: 2}
	store.users["user-3"] = domain.User{ID: "user-3", FirstName: "Ana", LastName: "Reyes", PlateNumber: "ABC-123"}
	store.rentals["rent-1"] = &domain.Rental{ID: "rent-1", ListingID: "listing-1", RenterID: "user-1", Status: domain.RentalStatusActive}
	store.rentals["rent-2"] = &domain.Rental{ID: "rent-2", ListingID: "listing-1", RenterID: "user-2", Status: domain.RentalStatusActive}

	rentals := NewRentalService(store, NewOccupancyLedger(store), clock.NewFixed(now))
	queue := NewQueueService(store, clock.NewFixed(now))

	// A booking against the full listing is refused.
	_, err := rentals.Create(ctx, CreateRentalInput{
		OwnerID:   "company-1",
		RenterID:  "user-3",
		ListingID: "listing-1",
		StartDate: start,
		EndDate:   end,
		TotalCost: decimal.NewFromInt(550),
	})
	if !errors.Is(err, domain.ErrListingFull) {
		t.Fatalf("expected ErrListingFull, got %v", err)
	}

	// The refused renter joins the queue at position 1.
	entry, err := queue.Join(ctx, JoinQueueInput{
		ListingID: "listing-1",
		UserID:    "user-3",
		StartDate: start,
		EndDate:   end,
		TotalCost: decimal.NewFromInt(550),
	})
	if err != nil {
		t.Fatalf("join queue: %v", err)
	}
	if entry.Position != 1 {
		t.Fatalf("expected position 1, got %d", entry.Position)
	}

	// An existing rental checks out, freeing a space.
	res, err := rentals.CheckOut(ctx, "rent-1")
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if res.Occupancy != 1 {
		t.Fatalf("expected occupancy 1, got %d", res.Occupancy)
	}

	// Processing the queue promotes the waiter into a pending rental.
	promo, err := queue.Process(ctx, "listing-1")
	if err != nil {
		t.Fatalf("process queue: %v", err)
	}
	if promo.Rental.Status != domain.RentalStatusPending {
		t.Fatalf("expected pending rental, got %s", promo.Rental.Status)
	}
	if promo.Rental.RenterID != "user-3" {
		t.Fatalf("expected user-3 promoted, got %s", promo.Rental.RenterID)
	}
	if promo.Rental.PlateNumber != "ABC-123" {
		t.Fatalf("expected plate from user record, got %q", promo.Rental.PlateNumber)
	}
	// Promotion does not consume the free space.
	if got := store.listings["listing-1"].Occupancy; got != 1 {
		t.Fatalf("expected occupancy still 1, got %d", got)
	}

	// The queue is empty afterwards.
	if _, err := queue.Process(ctx, "listing-1"); !errors.Is(err, domain.ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}

	// The promoted rental can check in against the freed space.
	res, err = rentals.CheckIn(ctx, promo.Rental.ID)
	if err != nil {
		t.Fatalf("check in promoted rental: %v", err)
	}
	if res.Occupancy != 2 {
		t.Fatalf("expected occupancy back to 2, got %d", res.Occupancy)
	}
}

// memStore backs both services in one test, the way one database does in
// production. It reuses the rental and queue fakes' semantics over shared
// maps.
type memStore struct {
	listings map[string]*domain.Listing
	rentals  map[string]*domain.Rental
	users    map[string]domain.User
	entries  map[string]*domain.QueueEntry
}

func newMemStore() *memStore {
	return &memStore{
		listings: make(map[string]*domain.Listing),
		rentals:  make(map[string]*domain.Rental),
		users:    make(map[string]domain.User),
		entries:  make(map[string]*domain.QueueEntry),
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memStore) GetListingForUpdate(_ context.Context, listingID string) (domain.Listing, error) {
	listing, ok := m.listings[listingID]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return *listing, nil
}

func (m *memStore) CreateRental(_ context.Context, rental domain.Rental) error {
	m.rentals[rental.ID] = &rental
	return nil
}

func (m *memStore) GetRental(_ context.Context, rentalID string) (domain.Rental, error) {
	rental, ok := m.rentals[rentalID]
	if !ok {
		return domain.Rental{}, domain.ErrRentalNotFound
	}
	return *rental, nil
}

func (m *memStore) GetRentalForUpdate(ctx context.Context, rentalID string) (domain.Rental, error) {
	return m.GetRental(ctx, rentalID)
}

func (m *memStore) MarkActive(_ context.Context, rentalID string, at time.Time) (string, error) {
	rental, ok := m.rentals[rentalID]
	if !ok || rental.Status != domain.RentalStatusPending {
		return "", domain.ErrRentalNotFound
	}
	rental.Status = domain.RentalStatusActive
	rental.CheckInTime = &at
	return rental.ListingID, nil
}

func (m *memStore) MarkCompleted(_ context.Context, rentalID string, at time.Time) (string, error) {
	rental, ok := m.rentals[rentalID]
	if !ok || rental.Status != domain.RentalStatusActive {
		return "", domain.ErrRentalNotFound
	}
	rental.Status = domain.RentalStatusCompleted
	rental.CheckOutTime = &at
	return rental.ListingID, nil
}

func (m *memStore) UpdateRental(_ context.Context, rentalID string, patch domain.RentalPatch) (int64, error) {
	rental, ok := m.rentals[rentalID]
	if !ok {
		return 0, domain.ErrRentalNotFound
	}
	if patch.Status != nil {
		rental.Status = *patch.Status
	}
	if patch.RemainingCost != nil {
		rental.RemainingCost = *patch.RemainingCost
	}
	if patch.CheckInTime != nil {
		rental.CheckInTime = patch.CheckInTime
	}
	if patch.CheckOutTime != nil {
		rental.CheckOutTime = patch.CheckOutTime
	}
	return 1, nil
}

func (m *memStore) ListRentalsByUser(_ context.Context, userID string) ([]domain.RentalListItem, error) {
	var items []domain.RentalListItem
	for _, r := range m.rentals {
		if r.RenterID == userID || r.OwnerID == userID {
			items = append(items, domain.RentalListItem{Rental: *r})
		}
	}
	return items, nil
}

func (m *memStore) IncrementOccupancy(_ context.Context, listingID string) (int, error) {
	listing, ok := m.listings[listingID]
	if !ok {
		return 0, domain.ErrListingNotFound
	}
	if listing.Occupancy < listing.TotalSpaces {
		listing.Occupancy++
	}
	return listing.Occupancy, nil
}

func (m *memStore) DecrementOccupancy(_ context.Context, listingID string) (int, error) {
	listing, ok := m.listings[listingID]
	if !ok {
		return 0, domain.ErrListingNotFound
	}
	if listing.Occupancy > 0 {
		listing.Occupancy--
	}
	return listing.Occupancy, nil
}

func (m *memStore) CountWaiting(_ context.Context, listingID string) (int, error) {
	count := 0
	for _, e := range m.entries {
		if e.ListingID == listingID && e.Status == domain.QueueStatusWaiting {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateEntry(_ context.Context, entry domain.QueueEntry) error {
	m.entries[entry.ID] = &entry
	return nil
}

func (m *memStore) GetEntry(_ context.Context, queueID string) (domain.QueueEntry, error) {
	entry, ok := m.entries[queueID]
	if !ok {
		return domain.QueueEntry{}, domain.ErrQueueEntryNotFound
	}
	return *entry, nil
}

func (m *memStore) ListWaiting(_ context.Context, listingID string) ([]domain.WaitingEntry, error) {
	var waiting []domain.WaitingEntry
	for _, e := range m.entries {
		if e.ListingID == listingID && e.Status == domain.QueueStatusWaiting {
			waiting = append(waiting, domain.WaitingEntry{QueueEntry: *e})
		}
	}
	return waiting, nil
}

func (m *memStore) HeadForUpdate(_ context.Context, listingID string) (domain.QueueEntry, error) {
	var head *domain.QueueEntry
	for _, e := range m.entries {
		if e.ListingID != listingID || e.Status != domain.QueueStatusWaiting {
			continue
		}
		if head == nil || e.Position < head.Position {
			head = e
		}
	}
	if head == nil {
		return domain.QueueEntry{}, domain.ErrQueueEmpty
	}
	return *head, nil
}

func (m *memStore) GetUser(_ context.Context, userID string) (domain.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) MarkProcessed(_ context.Context, queueID string) error {
	entry, ok := m.entries[queueID]
	if !ok || entry.Status != domain.QueueStatusWaiting {
		return domain.ErrQueueEntryNotFound
	}
	entry.Status = domain.QueueStatusProcessed
	return nil
}

func (m *memStore) MarkCancelled(_ context.Context, queueID string) error {
	entry, ok := m.entries[queueID]
	if !ok || entry.Status != domain.QueueStatusWaiting {
		return domain.ErrQueueEntryNotFound
	}
	entry.Status = domain.QueueStatusCancelled
	return nil
}

func (m *memStore) ShiftWaiting(_ context.Context, listingID string, after int) error {
	for _, e := range m.entries {
		if e.ListingID == listingID && e.Status == domain.QueueStatusWaiting && e.Position > after {
			e.Position--
		}
	}
	return nil
}
