package app

import "context"

// OccupancyStore is the single write path for a listing's occupancy counter.
type OccupancyStore interface {
	IncrementOccupancy(ctx context.Context, listingID string) (int, error)
	DecrementOccupancy(ctx context.Context, listingID string) (int, error)
}

// OccupancyLedger owns the invariant 0 <= occupancy <= total_spaces. Both
// operations clamp at the bounds and report the stored value after the
// update. They never reject: admission control happens before a rental is
// created, not here. Callers must invoke them inside the same transaction as
// the rental or queue mutation that triggered them.
type OccupancyLedger struct {
	store OccupancyStore
}

func NewOccupancyLedger(store OccupancyStore) *OccupancyLedger {
	return &OccupancyLedger{store: store}
}

// Increment raises the listing's occupancy by one, clamped at total_spaces.
func (l *OccupancyLedger) Increment(ctx context.Context, listingID string) (int, error) {
	return l.store.IncrementOccupancy(ctx, listingID)
}

// Decrement lowers the listing's occupancy by one, clamped at zero so a
// duplicate decrement can never drive the counter negative.
func (l *OccupancyLedger) Decrement(ctx context.Context, listingID string) (int, error) {
	return l.store.DecrementOccupancy(ctx, listingID)
}
