package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RentalRepository struct {
	pool *pgxpool.Pool
}

func NewRentalRepository(pool *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{pool: pool}
}

func (r *RentalRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *RentalRepository) GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error) {
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

// IncrementOccupancy raises the counter by one, clamped at total_spaces, and
// returns the stored value.
func (r *RentalRepository) IncrementOccupancy(ctx context.Context, listingID string) (int, error) {
	const stmt = `
UPDATE listings
SET occupancy = LEAST(occupancy + 1, total_spaces)
WHERE listing_id = $1
RETURNING occupancy`

	var occupancy int
	err := r.queryRow(ctx, stmt, listingID).Scan(&occupancy)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrListingNotFound
		}
		return 0, fmt.Errorf("increment occupancy: %w", err)
	}
	return occupancy, nil
}

// DecrementOccupancy lowers the counter by one, clamped at zero, and returns
// the stored value.
func (r *RentalRepository) DecrementOccupancy(ctx context.Context, listingID string) (int, error) {
	const stmt = `
UPDATE listings
SET occupancy = GREATEST(occupancy - 1, 0)
WHERE listing_id = $1
RETURNING occupancy`

	var occupancy int
	err := r.queryRow(ctx, stmt, listingID).Scan(&occupancy)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrListingNotFound
		}
		return 0, fmt.Errorf("decrement occupancy: %w", err)
	}
	return occupancy, nil
}

func (r *RentalRepository) CreateRental(ctx context.Context, rental domain.Rental) error {
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
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err, "listing") {
			return domain.ErrListingNotFound
		}
		if isForeignKeyViolation(err, "renter") {
			return domain.ErrUserNotFound
		}
		if isForeignKeyViolation(err, "owner") {
			return domain.ErrCompanyNotFound
		}
		return fmt.Errorf("create rental: %w", err)
	}
	return nil
}

const rentalColumns = `rent_id, owner_id, renter_id, listing_id, plate_number, start_date, end_date,
	total_cost, remaining_cost, status, check_in_time, check_out_time, source_queue_id, created_at`

func scanRental(row pgx.Row) (domain.Rental, error) {
	var rental domain.Rental
	err := row.Scan(
		&rental.ID,
		&rental.OwnerID,
		&rental.RenterID,
		&rental.ListingID,
		&rental.PlateNumber,
		&rental.StartDate,
		&rental.EndDate,
		&rental.TotalCost,
		&rental.RemainingCost,
		&rental.Status,
		&rental.CheckInTime,
		&rental.CheckOutTime,
		&rental.SourceQueueID,
		&rental.CreatedAt,
	)
	return rental, err
}

func (r *RentalRepository) GetRental(ctx context.Context, rentalID string) (domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rents WHERE rent_id = $1`

	rental, err := scanRental(r.queryRow(ctx, query, rentalID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Rental{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Rental{}, domain.ErrRentalNotFound
		}
		return domain.Rental{}, fmt.Errorf("get rental: %w", err)
	}
	return rental, nil
}

func (r *RentalRepository) GetRentalForUpdate(ctx context.Context, rentalID string) (domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rents WHERE rent_id = $1 FOR UPDATE`

	rental, err := scanRental(r.queryRow(ctx, query, rentalID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Rental{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Rental{}, domain.ErrRentalNotFound
		}
		return domain.Rental{}, fmt.Errorf("get rental for update: %w", err)
	}
	return rental, nil
}

// MarkActive is the check-in guard: the status condition makes two concurrent
// check-ins on one rental resolve to a single winner, the loser seeing
// ErrRentalNotFound.
func (r *RentalRepository) MarkActive(ctx context.Context, rentalID string, at time.Time) (string, error) {
	const stmt = `
UPDATE rents
SET status = 'active', check_in_time = $2
WHERE rent_id = $1 AND status = 'pending'
RETURNING listing_id`

	var listingID string
	err := r.queryRow(ctx, stmt, rentalID, at).Scan(&listingID)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrRentalNotFound
		}
		return "", fmt.Errorf("mark rental active: %w", err)
	}
	return listingID, nil
}

func (r *RentalRepository) MarkCompleted(ctx context.Context, rentalID string, at time.Time) (string, error) {
	const stmt = `
UPDATE rents
SET status = 'completed', check_out_time = $2
WHERE rent_id = $1 AND status = 'active'
RETURNING listing_id`

	var listingID string
	err := r.queryRow(ctx, stmt, rentalID, at).Scan(&listingID)
	if err != nil {
		if isInvalidUUID(err) {
			return "", domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return "", domain.ErrRentalNotFound
		}
		return "", fmt.Errorf("mark rental completed: %w", err)
	}
	return listingID, nil
}

func (r *RentalRepository) UpdateRental(ctx context.Context, rentalID string, patch domain.RentalPatch) (int64, error) {
	sets := make([]string, 0, 4)
	args := []any{rentalID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.RemainingCost != nil {
		appendSet("remaining_cost", *patch.RemainingCost)
	}
	if patch.CheckInTime != nil {
		appendSet("check_in_time", *patch.CheckInTime)
	}
	if patch.CheckOutTime != nil {
		appendSet("check_out_time", *patch.CheckOutTime)
	}
	if len(sets) == 0 {
		return 0, domain.ErrNoUpdateFields
	}

	stmt := `UPDATE rents SET ` + strings.Join(sets, ", ") + ` WHERE rent_id = $1`
	tag, err := r.exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("update rental: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrRentalNotFound
	}
	return tag.RowsAffected(), nil
}

func (r *RentalRepository) ListRentalsByUser(ctx context.Context, userID string) ([]domain.RentalListItem, error) {
	const query = `
SELECT r.rent_id, r.owner_id, r.renter_id, r.listing_id, r.plate_number, r.start_date, r.end_date,
	r.total_cost, r.remaining_cost, r.status, r.check_in_time, r.check_out_time, r.source_queue_id, r.created_at,
	l.unit_number, l.street, l.municipality,
	u.first_name || ' ' || u.last_name AS renter_name,
	c.name AS owner_name
FROM rents r
JOIN users u ON u.user_id = r.renter_id
JOIN companies c ON c.company_id = r.owner_id
JOIN listings l ON l.listing_id = r.listing_id
WHERE r.renter_id = $1
ORDER BY r.created_at DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list rentals by user: %w", err)
	}
	defer rows.Close()

	var items []domain.RentalListItem
	for rows.Next() {
		var item domain.RentalListItem
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.RenterID,
			&item.ListingID,
			&item.PlateNumber,
			&item.StartDate,
			&item.EndDate,
			&item.TotalCost,
			&item.RemainingCost,
			&item.Status,
			&item.CheckInTime,
			&item.CheckOutTime,
			&item.SourceQueueID,
			&item.CreatedAt,
			&item.UnitNumber,
			&item.Street,
			&item.Municipality,
			&item.RenterName,
			&item.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("scan rental row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list rentals by user: %w", err)
	}
	return items, nil
}

func (r *RentalRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *RentalRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *RentalRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
