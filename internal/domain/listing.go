package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a parking location with a fixed number of spaces offered by a
// company. Occupancy counts currently active rentals and is mutated only by
// the occupancy ledger; listing edits never touch it.
type Listing struct {
	ID           string
	CompanyID    string
	UnitNumber   string
	Street       string
	Barangay     string
	Municipality string
	Region       string
	ZipCode      string
	TotalSpaces  int
	Occupancy    int
	RatePerDay   decimal.Decimal
	Description  string
	IsActive     bool
	CreatedAt    time.Time
}

// ListingSummary is a listing joined with its company name for display.
type ListingSummary struct {
	Listing
	CompanyName string
}

// ListingPatch is a partial listing update; nil fields are left unchanged.
// Occupancy and TotalSpaces are deliberately absent: the counter belongs to
// the ledger and capacity is fixed at creation.
type ListingPatch struct {
	UnitNumber   *string
	Street       *string
	Barangay     *string
	Municipality *string
	Region       *string
	ZipCode      *string
	RatePerDay   *decimal.Decimal
	Description  *string
	IsActive     *bool
}

func (p ListingPatch) IsZero() bool {
	return p.UnitNumber == nil && p.Street == nil && p.Barangay == nil &&
		p.Municipality == nil && p.Region == nil && p.ZipCode == nil &&
		p.RatePerDay == nil && p.Description == nil && p.IsActive == nil
}
