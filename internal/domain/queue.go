package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusProcessed QueueStatus = "processed"
	QueueStatusCancelled QueueStatus = "cancelled"
)

// QueueEntry is one renter's place on a listing's waitlist. Positions of
// waiting entries for a listing are dense and 1-based: exactly {1..N} for N
// waiters, ordered by join time. TotalCost is a price snapshot taken when the
// renter joined; the queue stores it as given and never recomputes pricing.
type QueueEntry struct {
	ID        string
	ListingID string
	UserID    string
	Position  int
	Status    QueueStatus
	StartDate time.Time
	EndDate   time.Time
	TotalCost decimal.Decimal
	JoinedAt  time.Time
}

// WaitingEntry is a queue entry joined with the renter's display name.
type WaitingEntry struct {
	QueueEntry
	UserName string
}
