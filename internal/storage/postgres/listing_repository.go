package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/FloresRKT/OS-Project/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing domain.Listing) error {
	const stmt = `
INSERT INTO listings (listing_id, company_id, unit_number, street, barangay, municipality, region, zip_code,
	total_spaces, occupancy, rate_per_day, description, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.exec(ctx, stmt,
		listing.ID,
		listing.CompanyID,
		listing.UnitNumber,
		listing.Street,
		listing.Barangay,
		listing.Municipality,
		listing.Region,
		listing.ZipCode,
		listing.TotalSpaces,
		listing.Occupancy,
		listing.RatePerDay,
		listing.Description,
		listing.IsActive,
		listing.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err, "company") {
			return domain.ErrCompanyNotFound
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

const listingColumns = `listing_id, company_id, unit_number, street, barangay, municipality, region, zip_code,
	total_spaces, occupancy, rate_per_day, description, is_active, created_at`

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.CompanyID,
		&l.UnitNumber,
		&l.Street,
		&l.Barangay,
		&l.Municipality,
		&l.Region,
		&l.ZipCode,
		&l.TotalSpaces,
		&l.Occupancy,
		&l.RatePerDay,
		&l.Description,
		&l.IsActive,
		&l.CreatedAt,
	)
	return l, err
}

func (r *ListingRepository) GetListing(ctx context.Context, listingID string) (domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE listing_id = $1`

	listing, err := scanListing(r.queryRow(ctx, query, listingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Listing{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

func (r *ListingRepository) ListListings(ctx context.Context) ([]domain.ListingSummary, error) {
	const query = `
SELECT l.listing_id, l.company_id, l.unit_number, l.street, l.barangay, l.municipality, l.region, l.zip_code,
	l.total_spaces, l.occupancy, l.rate_per_day, l.description, l.is_active, l.created_at,
	c.name AS company_name
FROM listings l
JOIN companies c ON c.company_id = l.company_id
WHERE l.is_active
ORDER BY l.created_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.ListingSummary
	for rows.Next() {
		var s domain.ListingSummary
		if err := rows.Scan(
			&s.ID,
			&s.CompanyID,
			&s.UnitNumber,
			&s.Street,
			&s.Barangay,
			&s.Municipality,
			&s.Region,
			&s.ZipCode,
			&s.TotalSpaces,
			&s.Occupancy,
			&s.RatePerDay,
			&s.Description,
			&s.IsActive,
			&s.CreatedAt,
			&s.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) ListListingsByCompany(ctx context.Context, companyID string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, companyID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list company listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list company listings: %w", err)
	}
	return listings, nil
}

// UpdateListing edits listing metadata. Occupancy and total_spaces have no
// corresponding patch fields; this statement can never touch the counter.
func (r *ListingRepository) UpdateListing(ctx context.Context, listingID string, patch domain.ListingPatch) (int64, error) {
	sets := make([]string, 0, 9)
	args := []any{listingID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.UnitNumber != nil {
		appendSet("unit_number", *patch.UnitNumber)
	}
	if patch.Street != nil {
		appendSet("street", *patch.Street)
	}
	if patch.Barangay != nil {
		appendSet("barangay", *patch.Barangay)
	}
	if patch.Municipality != nil {
		appendSet("municipality", *patch.Municipality)
	}
	if patch.Region != nil {
		appendSet("region", *patch.Region)
	}
	if patch.ZipCode != nil {
		appendSet("zip_code", *patch.ZipCode)
	}
	if patch.RatePerDay != nil {
		appendSet("rate_per_day", *patch.RatePerDay)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.IsActive != nil {
		appendSet("is_active", *patch.IsActive)
	}
	if len(sets) == 0 {
		return 0, domain.ErrNoUpdateFields
	}

	stmt := `UPDATE listings SET ` + strings.Join(sets, ", ") + ` WHERE listing_id = $1`
	tag, err := r.exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrListingNotFound
	}
	return tag.RowsAffected(), nil
}

func (r *ListingRepository) DeleteListing(ctx context.Context, listingID string) error {
	const stmt = `DELETE FROM listings WHERE listing_id = $1`

	tag, err := r.exec(ctx, stmt, listingID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ListingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ListingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
