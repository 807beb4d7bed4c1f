package app

import (
	"context"
	"time"

	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

type RentalRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error)
	CreateRental(ctx context.Context, rental domain.Rental) error
	GetRental(ctx context.Context, rentalID string) (domain.Rental, error)
	GetRentalForUpdate(ctx context.Context, rentalID string) (domain.Rental, error)
	// MarkActive flips a pending rental to active and stamps check_in_time,
	// returning the rental's listing id. Zero matched rows surface as
	// domain.ErrRentalNotFound.
	MarkActive(ctx context.Context, rentalID string, at time.Time) (string, error)
	// MarkCompleted is the mirror of MarkActive for active -> completed.
	MarkCompleted(ctx context.Context, rentalID string, at time.Time) (string, error)
	UpdateRental(ctx context.Context, rentalID string, patch domain.RentalPatch) (int64, error)
	ListRentalsByUser(ctx context.Context, userID string) ([]domain.RentalListItem, error)
}

// RentalService governs the rental lifecycle: pending -> active -> completed,
// with cancellation and expiry side paths. Every transition crossing the
// active boundary moves the listing's occupancy through the ledger inside the
// same transaction, so a rental is never left active without its increment
// committed, nor completed without the matching decrement.
type RentalService struct {
	repo   RentalRepository
	ledger *OccupancyLedger
	clock  clock.Clock
}

func NewRentalService(repo RentalRepository, ledger *OccupancyLedger, clk clock.Clock) *RentalService {
	return &RentalService{
		repo:   repo,
		ledger: ledger,
		clock:  clk,
	}
}

type CreateRentalInput struct {
	OwnerID     string
	RenterID    string
	ListingID   string
	PlateNumber string
	StartDate   time.Time
	EndDate     time.Time
	TotalCost   decimal.Decimal
	// RemainingCost defaults to TotalCost when nil.
	RemainingCost *decimal.Decimal
}

// Create inserts a rental in pending status. Occupancy is untouched: a
// pending rental does not consume a space until check-in. A fully booked
// listing refuses admission with ErrListingFull, directing the caller to the
// reservation queue instead.
func (s *RentalService) Create(ctx context.Context, in CreateRentalInput) (domain.Rental, error) {
	if in.OwnerID == "" || in.RenterID == "" || in.ListingID == "" ||
		in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.Rental{}, domain.ErrMissingRequiredField
	}
	if in.TotalCost.IsNegative() {
		return domain.Rental{}, domain.ErrInvalidCost
	}
	if in.RemainingCost != nil && in.RemainingCost.IsNegative() {
		return domain.Rental{}, domain.ErrInvalidCost
	}

	remaining := in.TotalCost
	if in.RemainingCost != nil {
		remaining = *in.RemainingCost
	}

	rental := domain.Rental{
		ID:            newID(),
		OwnerID:       in.OwnerID,
		RenterID:      in.RenterID,
		ListingID:     in.ListingID,
		PlateNumber:   in.PlateNumber,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		TotalCost:     in.TotalCost,
		RemainingCost: remaining,
		Status:        domain.RentalStatusPending,
		CreatedAt:     s.clock.Now(),
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.repo.GetListingForUpdate(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		if listing.Occupancy >= listing.TotalSpaces {
			return domain.ErrListingFull
		}
		return s.repo.CreateRental(txCtx, rental)
	})
	if err != nil {
		return domain.Rental{}, err
	}
	return rental, nil
}

// TransitionResult reports the outcome of a check-in or check-out.
type TransitionResult struct {
	RentalID  string
	ListingID string
	Occupancy int
}

// CheckIn moves a pending rental to active, stamps its check-in time and
// increments the listing's occupancy, all in one transaction. A rental that
// does not exist or is not pending fails with ErrRentalNotFound and leaves
// occupancy unchanged.
func (s *RentalService) CheckIn(ctx context.Context, rentalID string) (TransitionResult, error) {
	if rentalID == "" {
		return TransitionResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var res TransitionResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listingID, err := s.repo.MarkActive(txCtx, rentalID, now)
		if err != nil {
			return err
		}
		occupancy, err := s.ledger.Increment(txCtx, listingID)
		if err != nil {
			return err
		}
		res = TransitionResult{RentalID: rentalID, ListingID: listingID, Occupancy: occupancy}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return res, nil
}

// CheckOut moves an active rental to completed, stamps its check-out time and
// decrements the listing's occupancy. Mirror of CheckIn.
func (s *RentalService) CheckOut(ctx context.Context, rentalID string) (TransitionResult, error) {
	if rentalID == "" {
		return TransitionResult{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var res TransitionResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listingID, err := s.repo.MarkCompleted(txCtx, rentalID, now)
		if err != nil {
			return err
		}
		occupancy, err := s.ledger.Decrement(txCtx, listingID)
		if err != nil {
			return err
		}
		res = TransitionResult{RentalID: rentalID, ListingID: listingID, Occupancy: occupancy}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return res, nil
}

type UpdateRentalInput struct {
	Status        *domain.RentalStatus
	RemainingCost *decimal.Decimal
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
}

type UpdateRentalResult struct {
	RentalID string
	Changes  int64
	// Occupancy carries the post-update counter when the status change
	// crossed the active boundary; nil otherwise.
	Occupancy *int
}

// Update applies a partial update to a rental. When the status changes,
// occupancy is re-derived under the same rule as the dedicated paths:
// entering active increments, leaving active decrements. The two entry points
// share one transition rule, not two.
func (s *RentalService) Update(ctx context.Context, rentalID string, in UpdateRentalInput) (UpdateRentalResult, error) {
	if rentalID == "" {
		return UpdateRentalResult{}, domain.ErrInvalidID
	}
	if in.Status == nil && in.RemainingCost == nil && in.CheckInTime == nil && in.CheckOutTime == nil {
		return UpdateRentalResult{}, domain.ErrNoUpdateFields
	}
	if in.Status != nil && !in.Status.Valid() {
		return UpdateRentalResult{}, domain.ErrInvalidStatus
	}
	if in.RemainingCost != nil && in.RemainingCost.IsNegative() {
		return UpdateRentalResult{}, domain.ErrInvalidCost
	}

	now := s.clock.Now()
	var res UpdateRentalResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetRentalForUpdate(txCtx, rentalID)
		if err != nil {
			return err
		}

		entering := in.Status != nil && *in.Status == domain.RentalStatusActive &&
			current.Status != domain.RentalStatusActive
		leaving := in.Status != nil && *in.Status != domain.RentalStatusActive &&
			current.Status == domain.RentalStatusActive

		patch := domain.RentalPatch{
			Status:        in.Status,
			RemainingCost: in.RemainingCost,
			CheckInTime:   in.CheckInTime,
			CheckOutTime:  in.CheckOutTime,
		}
		if entering && patch.CheckInTime == nil {
			patch.CheckInTime = &now
		}
		if leaving && patch.CheckOutTime == nil {
			patch.CheckOutTime = &now
		}

		changes, err := s.repo.UpdateRental(txCtx, rentalID, patch)
		if err != nil {
			return err
		}
		res = UpdateRentalResult{RentalID: rentalID, Changes: changes}

		if entering {
			occupancy, err := s.ledger.Increment(txCtx, current.ListingID)
			if err != nil {
				return err
			}
			res.Occupancy = &occupancy
		} else if leaving {
			occupancy, err := s.ledger.Decrement(txCtx, current.ListingID)
			if err != nil {
				return err
			}
			res.Occupancy = &occupancy
		}
		return nil
	})
	if err != nil {
		return UpdateRentalResult{}, err
	}
	return res, nil
}

func (s *RentalService) Get(ctx context.Context, rentalID string) (domain.Rental, error) {
	if rentalID == "" {
		return domain.Rental{}, domain.ErrInvalidID
	}
	return s.repo.GetRental(ctx, rentalID)
}

func (s *RentalService) ListByUser(ctx context.Context, userID string) ([]domain.RentalListItem, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListRentalsByUser(ctx, userID)
}
