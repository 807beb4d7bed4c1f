package postgres

import (
	"context"
	"fmt"

	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QueueRepository struct {
	pool *pgxpool.Pool
}

func NewQueueRepository(pool *pgxpool.Pool) *QueueRepository {
	return &QueueRepository{pool: pool}
}

func (r *QueueRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetListingForUpdate locks the listing row. Every queue mutation takes this
// lock first so position reads and writes on one listing serialize.
func (r *QueueRepository) GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error) {
	const query = `
SELECT listing_id, company_id, total_spaces, occupancy, rate_per_day, is_active
FROM listings
WHERE listing_id = $1
FOR UPDATE`

	var l domain.Listing
	err := r.queryRow(ctx, query, listingID).
		Scan(&l.ID, &l.CompanyID, &l.TotalSpaces, &l.Occupancy, &l.RatePerDay, &l.IsActive)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Listing{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

func (r *QueueRepository) CountWaiting(ctx context.Context, listingID string) (int, error) {
	const query = `SELECT COUNT(*) FROM reservation_queue WHERE listing_id = $1 AND status = 'waiting'`

	var count int
	if err := r.queryRow(ctx, query, listingID).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count waiting: %w", err)
	}
	return count, nil
}

func (r *QueueRepository) CreateEntry(ctx context.Context, entry domain.QueueEntry) error {
	const stmt = `
INSERT INTO reservation_queue (queue_id, listing_id, user_id, position, status, start_date, end_date, total_cost, joined_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		entry.ID,
		entry.ListingID,
		entry.UserID,
		entry.Position,
		entry.Status,
		entry.StartDate,
		entry.EndDate,
		entry.TotalCost,
		entry.JoinedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err, "listing") {
			return domain.ErrListingNotFound
		}
		if isForeignKeyViolation(err, "user") {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create queue entry: %w", err)
	}
	return nil
}

const queueColumns = `queue_id, listing_id, user_id, position, status, start_date, end_date, total_cost, joined_at`

func scanQueueEntry(row pgx.Row) (domain.QueueEntry, error) {
	var e domain.QueueEntry
	err := row.Scan(
		&e.ID,
		&e.ListingID,
		&e.UserID,
		&e.Position,
		&e.Status,
		&e.StartDate,
		&e.EndDate,
		&e.TotalCost,
		&e.JoinedAt,
	)
	return e, err
}

func (r *QueueRepository) GetEntry(ctx context.Context, queueID string) (domain.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM reservation_queue WHERE queue_id = $1`

	entry, err := scanQueueEntry(r.queryRow(ctx, query, queueID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.QueueEntry{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.QueueEntry{}, domain.ErrQueueEntryNotFound
		}
		return domain.QueueEntry{}, fmt.Errorf("get queue entry: %w", err)
	}
	return entry, nil
}

func (r *QueueRepository) ListWaiting(ctx context.Context, listingID string) ([]domain.WaitingEntry, error) {
	const query = `
SELECT q.queue_id, q.listing_id, q.user_id, q.position, q.status, q.start_date, q.end_date, q.total_cost, q.joined_at,
	u.first_name || ' ' || u.last_name AS user_name
FROM reservation_queue q
JOIN users u ON u.user_id = q.user_id
WHERE q.listing_id = $1 AND q.status = 'waiting'
ORDER BY q.position ASC`

	rows, err := r.query(ctx, query, listingID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list waiting: %w", err)
	}
	defer rows.Close()

	var entries []domain.WaitingEntry
	for rows.Next() {
		var e domain.WaitingEntry
		if err := rows.Scan(
			&e.ID,
			&e.ListingID,
			&e.UserID,
			&e.Position,
			&e.Status,
			&e.StartDate,
			&e.EndDate,
			&e.TotalCost,
			&e.JoinedAt,
			&e.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan waiting entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list waiting: %w", err)
	}
	return entries, nil
}

func (r *QueueRepository) HeadForUpdate(ctx context.Context, listingID string) (domain.QueueEntry, error) {
	query := `
SELECT ` + queueColumns + `
FROM reservation_queue
WHERE listing_id = $1 AND status = 'waiting'
ORDER BY position ASC
LIMIT 1
FOR UPDATE`

	entry, err := scanQueueEntry(r.queryRow(ctx, query, listingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.QueueEntry{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.QueueEntry{}, domain.ErrQueueEmpty
		}
		return domain.QueueEntry{}, fmt.Errorf("queue head: %w", err)
	}
	return entry, nil
}

func (r *QueueRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	const query = `
SELECT user_id, first_name, last_name, email, COALESCE(plate_number, ''), created_at
FROM users
WHERE user_id = $1`

	var u domain.User
	err := r.queryRow(ctx, query, userID).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PlateNumber, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *QueueRepository) MarkProcessed(ctx context.Context, queueID string) error {
	return r.setStatus(ctx, queueID, domain.QueueStatusProcessed)
}

func (r *QueueRepository) MarkCancelled(ctx context.Context, queueID string) error {
	return r.setStatus(ctx, queueID, domain.QueueStatusCancelled)
}

func (r *QueueRepository) setStatus(ctx context.Context, queueID string, status domain.QueueStatus) error {
	const stmt = `UPDATE reservation_queue SET status = $2 WHERE queue_id = $1 AND status = 'waiting'`

	tag, err := r.exec(ctx, stmt, queueID, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set queue entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQueueEntryNotFound
	}
	return nil
}

// ShiftWaiting renumbers the waiting entries behind a removed one, keeping
// positions a contiguous sequence starting at 1. Callers hold the listing
// lock, so the renumber cannot interleave with a concurrent join.
func (r *QueueRepository) ShiftWaiting(ctx context.Context, listingID string, after int) error {
	const stmt = `
UPDATE reservation_queue
SET position = position - 1
WHERE listing_id = $1 AND status = 'waiting' AND position > $2`

	if _, err := r.exec(ctx, stmt, listingID, after); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("shift waiting positions: %w", err)
	}
	return nil
}

// CreateRental inserts the pending rental produced by a queue promotion.
func (r *QueueRepository) CreateRental(ctx context.Context, rental domain.Rental) error {
	const stmt = `
INSERT INTO rents (rent_id, owner_id, renter_id, listing_id, plate_number, start_date, end_date,
	total_cost, remaining_cost, status, source_queue_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		rental.ID,
		rental.OwnerID,
		rental.RenterID,
		rental.ListingID,
		rental.PlateNumber,
		rental.StartDate,
		rental.EndDate,
		rental.TotalCost,
		rental.RemainingCost,
		rental.Status,
		rental.SourceQueueID,
		rental.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create promoted rental: %w", err)
	}
	return nil
}

func (r *QueueRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *QueueRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *QueueRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
