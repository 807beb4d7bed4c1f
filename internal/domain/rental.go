package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusExpired   RentalStatus = "expired"
)

// Valid reports whether s is one of the known rental statuses.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusActive, RentalStatusCompleted,
		RentalStatusCancelled, RentalStatusExpired:
		return true
	}
	return false
}

// Rental is a booking of one space at a listing by a renter for a date range.
// CheckInTime is set only on the transition into active, CheckOutTime only on
// the transition out of it. SourceQueueID links a rental created by queue
// promotion back to its originating entry.
type Rental struct {
	ID            string
	OwnerID       string
	RenterID      string
	ListingID     string
	PlateNumber   string
	StartDate     time.Time
	EndDate       time.Time
	TotalCost     decimal.Decimal
	RemainingCost decimal.Decimal
	Status        RentalStatus
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	SourceQueueID *string
	CreatedAt     time.Time
}

// RentalListItem is a rental joined with listing location and party names.
type RentalListItem struct {
	Rental
	UnitNumber   string
	Street       string
	Municipality string
	RenterName   string
	OwnerName    string
}

// RentalPatch is a partial rental update; nil fields are left unchanged.
type RentalPatch struct {
	Status        *RentalStatus
	RemainingCost *decimal.Decimal
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
}

func (p RentalPatch) IsZero() bool {
	return p.Status == nil && p.RemainingCost == nil &&
		p.CheckInTime == nil && p.CheckOutTime == nil
}
