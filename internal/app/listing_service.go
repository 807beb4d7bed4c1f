package app

import (
	"context"

	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/shopspring/decimal"
)

type ListingRepository interface {
	CreateListing(ctx context.Context, listing domain.Listing) error
	GetListing(ctx context.Context, listingID string) (domain.Listing, error)
	ListListings(ctx context.Context) ([]domain.ListingSummary, error)
	ListListingsByCompany(ctx context.Context, companyID string) ([]domain.Listing, error)
	UpdateListing(ctx context.Context, listingID string, patch domain.ListingPatch) (int64, error)
	DeleteListing(ctx context.Context, listingID string) error
}

// ListingService covers listing CRUD. It can neither read nor write the
// occupancy counter: total_spaces is fixed at creation and occupancy moves
// only through the ledger.
type ListingService struct {
	repo  ListingRepository
	clock clock.Clock
}

func NewListingService(repo ListingRepository, clk clock.Clock) *ListingService {
	return &ListingService{
		repo:  repo,
		clock: clk,
	}
}

type CreateListingInput struct {
	CompanyID    string
	UnitNumber   string
	Street       string
	Barangay     string
	Municipality string
	Region       string
	ZipCode      string
	TotalSpaces  int
	RatePerDay   decimal.Decimal
	Description  string
}

func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	if in.CompanyID == "" || in.Street == "" || in.Municipality == "" || in.ZipCode == "" {
		return domain.Listing{}, domain.ErrMissingRequiredField
	}
	if in.TotalSpaces <= 0 {
		return domain.Listing{}, domain.ErrInvalidSpaces
	}
	if in.RatePerDay.IsNegative() {
		return domain.Listing{}, domain.ErrInvalidCost
	}

	listing := domain.Listing{
		ID:           newID(),
		CompanyID:    in.CompanyID,
		UnitNumber:   in.UnitNumber,
		Street:       in.Street,
		Barangay:     in.Barangay,
		Municipality: in.Municipality,
		Region:       in.Region,
		ZipCode:      in.ZipCode,
		TotalSpaces:  in.TotalSpaces,
		Occupancy:    0,
		RatePerDay:   in.RatePerDay,
		Description:  in.Description,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

func (s *ListingService) Get(ctx context.Context, listingID string) (domain.Listing, error) {
	if listingID == "" {
		return domain.Listing{}, domain.ErrInvalidID
	}
	return s.repo.GetListing(ctx, listingID)
}

func (s *ListingService) List(ctx context.Context) ([]domain.ListingSummary, error) {
	return s.repo.ListListings(ctx)
}

func (s *ListingService) ListByCompany(ctx context.Context, companyID string) ([]domain.Listing, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListListingsByCompany(ctx, companyID)
}

// Update applies a partial edit. The patch type has no occupancy or
// total_spaces fields, so listing edits cannot corrupt the ledger's counter.
func (s *ListingService) Update(ctx context.Context, listingID string, patch domain.ListingPatch) (int64, error) {
	if listingID == "" {
		return 0, domain.ErrInvalidID
	}
	if patch.IsZero() {
		return 0, domain.ErrNoUpdateFields
	}
	if patch.RatePerDay != nil && patch.RatePerDay.IsNegative() {
		return 0, domain.ErrInvalidCost
	}
	return s.repo.UpdateListing(ctx, listingID, patch)
}

func (s *ListingService) Delete(ctx context.Context, listingID string) error {
	if listingID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteListing(ctx, listingID)
}
