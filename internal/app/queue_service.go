package app

import (
	"context"
	"time"

	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

type QueueRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error)
	CountWaiting(ctx context.Context, listingID string) (int, error)
	CreateEntry(ctx context.Context, entry domain.QueueEntry) error
	GetEntry(ctx context.Context, queueID string) (domain.QueueEntry, error)
	ListWaiting(ctx context.Context, listingID string) ([]domain.WaitingEntry, error)
	// HeadForUpdate locks and returns the lowest-position waiting entry for
	// the listing, or domain.ErrQueueEmpty when there is none.
	HeadForUpdate(ctx context.Context, listingID string) (domain.QueueEntry, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	// MarkProcessed and MarkCancelled guard on status = waiting; zero matched
	// rows surface as domain.ErrQueueEntryNotFound.
	MarkProcessed(ctx context.Context, queueID string) error
	MarkCancelled(ctx context.Context, queueID string) error
	// ShiftWaiting moves every waiting entry for the listing with a position
	// greater than after down by one.
	ShiftWaiting(ctx context.Context, listingID string, after int) error
	CreateRental(ctx context.Context, rental domain.Rental) error
}

// QueueService maintains the per-listing FIFO waitlist. The listing row is
// locked before any position is read or written, so concurrent joins,
// cancellations and promotions on one listing serialize and positions stay
// dense from 1.
type QueueService struct {
	repo  QueueRepository
	clock clock.Clock
}

func NewQueueService(repo QueueRepository, clk clock.Clock) *QueueService {
	return &QueueService{
		repo:  repo,
		clock: clk,
	}
}

type JoinQueueInput struct {
	ListingID string
	UserID    string
	// Position is the client's advisory hint. The server recomputes the
	// authoritative position as count(waiting)+1 at insertion time; the hint
	// is ignored.
	Position  int
	StartDate time.Time
	EndDate   time.Time
	// TotalCost is the caller's price snapshot, surcharge included. Stored as
	// given; the queue never recomputes pricing.
	TotalCost decimal.Decimal
}

// Join appends a renter to the listing's waitlist and returns the entry with
// its assigned position. Joining never changes occupancy.
func (s *QueueService) Join(ctx context.Context, in JoinQueueInput) (domain.QueueEntry, error) {
	if in.ListingID == "" || in.UserID == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.QueueEntry{}, domain.ErrMissingRequiredField
	}
	if in.TotalCost.IsNegative() {
		return domain.QueueEntry{}, domain.ErrInvalidCost
	}

	entry := domain.QueueEntry{
		ID:        newID(),
		ListingID: in.ListingID,
		UserID:    in.UserID,
		Status:    domain.QueueStatusWaiting,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		TotalCost: in.TotalCost,
		JoinedAt:  s.clock.Now(),
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetListingForUpdate(txCtx, in.ListingID); err != nil {
			return err
		}
		waiting, err := s.repo.CountWaiting(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		entry.Position = waiting + 1
		return s.repo.CreateEntry(txCtx, entry)
	})
	if err != nil {
		return domain.QueueEntry{}, err
	}
	return entry, nil
}

// List returns the listing's waiting entries in position order.
func (s *QueueService) List(ctx context.Context, listingID string) ([]domain.WaitingEntry, error) {
	if listingID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListWaiting(ctx, listingID)
}

// PromotionResult reports a successful queue promotion.
type PromotionResult struct {
	Rental domain.Rental
	Entry  domain.QueueEntry
}

// Process promotes the head of the listing's waitlist into a new pending
// rental: the entry is marked processed and the remaining waiting entries
// shift down to keep positions dense from 1, all in one transaction. The
// rental's owner comes from the listing's company and its plate number from
// the waiter's user record. Occupancy is untouched; the promoted rental only
// consumes a space once it is checked in. An empty queue reports
// ErrQueueEmpty.
func (s *QueueService) Process(ctx context.Context, listingID string) (PromotionResult, error) {
	if listingID == "" {
		return PromotionResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var res PromotionResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.repo.GetListingForUpdate(txCtx, listingID)
		if err != nil {
			return err
		}
		entry, err := s.repo.HeadForUpdate(txCtx, listingID)
		if err != nil {
			return err
		}
		user, err := s.repo.GetUser(txCtx, entry.UserID)
		if err != nil {
			return err
		}

		rental := domain.Rental{
			ID:            newID(),
			OwnerID:       listing.CompanyID,
			RenterID:      entry.UserID,
			ListingID:     listingID,
			PlateNumber:   user.PlateNumber,
			StartDate:     entry.StartDate,
			EndDate:       entry.EndDate,
			TotalCost:     entry.TotalCost,
			RemainingCost: entry.TotalCost,
			Status:        domain.RentalStatusPending,
			SourceQueueID: &entry.ID,
			CreatedAt:     now,
		}
		if err := s.repo.CreateRental(txCtx, rental); err != nil {
			return err
		}
		if err := s.repo.MarkProcessed(txCtx, entry.ID); err != nil {
			return err
		}
		if err := s.repo.ShiftWaiting(txCtx, listingID, entry.Position); err != nil {
			return err
		}

		entry.Status = domain.QueueStatusProcessed
		res = PromotionResult{Rental: rental, Entry: entry}
		return nil
	})
	if err != nil {
		return PromotionResult{}, err
	}
	return res, nil
}

// Cancel withdraws a waiting entry and shifts the entries behind it down one
// position. An entry that does not exist or is not waiting fails with
// ErrQueueEntryNotFound.
func (s *QueueService) Cancel(ctx context.Context, queueID string) error {
	if queueID == "" {
		return domain.ErrInvalidID
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		entry, err := s.repo.GetEntry(txCtx, queueID)
		if err != nil {
			return err
		}
		if _, err := s.repo.GetListingForUpdate(txCtx, entry.ListingID); err != nil {
			return err
		}
		// A promotion or another cancel committing before the lock was
		// granted renumbers the queue. Re-read under the lock so the shift
		// starts from the entry's current position, not the one seen above.
		entry, err = s.repo.GetEntry(txCtx, queueID)
		if err != nil {
			return err
		}
		if err := s.repo.MarkCancelled(txCtx, queueID); err != nil {
			return err
		}
		return s.repo.ShiftWaiting(txCtx, entry.ListingID, entry.Position)
	})
}
