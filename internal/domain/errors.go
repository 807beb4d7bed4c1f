package domain

import "errors"

var (
	ErrMissingRequiredField = errors.New("missing required fields")
	ErrInvalidCost          = errors.New("cost must not be negative")
	ErrInvalidSpaces        = errors.New("total spaces must be positive")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrNoUpdateFields       = errors.New("no fields to update")
	ErrInvalidID            = errors.New("invalid id")

	ErrListingNotFound = errors.New("listing not found")
	// ErrRentalNotFound covers both a missing rental and one in the wrong
	// state for the requested transition. The store reports both as zero
	// affected rows, so callers cannot tell them apart.
	ErrRentalNotFound     = errors.New("rental not found or in wrong state")
	ErrQueueEntryNotFound = errors.New("queue entry not found or not waiting")
	ErrUserNotFound       = errors.New("user not found")
	ErrCompanyNotFound    = errors.New("company not found")

	ErrListingFull = errors.New("listing is fully booked")
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrEmailTaken  = errors.New("email already registered")
	ErrPlateTaken  = errors.New("plate number already registered")
)
