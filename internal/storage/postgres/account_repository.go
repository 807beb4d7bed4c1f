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

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (user_id, first_name, last_name, email, plate_number, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

	_, err := r.exec(ctx, stmt,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PlateNumber,
		user.CreatedAt,
	)
	if err != nil {
		if constraint := uniqueConstraint(err); constraint != "" {
			if strings.Contains(constraint, "plate") {
				return domain.ErrPlateTaken
			}
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
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

func (r *AccountRepository) CreateCompany(ctx context.Context, company domain.Company) error {
	const stmt = `
INSERT INTO companies (company_id, name, email, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, company.ID, company.Name, company.Email, company.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetCompany(ctx context.Context, companyID string) (domain.Company, error) {
	const query = `SELECT company_id, name, email, created_at FROM companies WHERE company_id = $1`

	var c domain.Company
	err := r.queryRow(ctx, query, companyID).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Company{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Company{}, domain.ErrCompanyNotFound
		}
		return domain.Company{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func (r *AccountRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AccountRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
