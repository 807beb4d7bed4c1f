package app

import (
	"context"

	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/domain"
)

type AccountRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	CreateCompany(ctx context.Context, company domain.Company) error
	GetCompany(ctx context.Context, companyID string) (domain.Company, error)
}

// AccountService registers renters and companies. Authentication lives
// elsewhere; the core only needs the identities that rentals and queue
// entries reference.
type AccountService struct {
	repo  AccountRepository
	clock clock.Clock
}

func NewAccountService(repo AccountRepository, clk clock.Clock) *AccountService {
	return &AccountService{
		repo:  repo,
		clock: clk,
	}
}

type CreateUserInput struct {
	FirstName   string
	LastName    string
	Email       string
	PlateNumber string
}

func (s *AccountService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return domain.User{}, domain.ErrMissingRequiredField
	}

	user := domain.User{
		ID:          newID(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PlateNumber: in.PlateNumber,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrInvalidID
	}
	return s.repo.GetUser(ctx, userID)
}

type CreateCompanyInput struct {
	Name  string
	Email string
}

func (s *AccountService) CreateCompany(ctx context.Context, in CreateCompanyInput) (domain.Company, error) {
	if in.Name == "" || in.Email == "" {
		return domain.Company{}, domain.ErrMissingRequiredField
	}

	company := domain.Company{
		ID:        newID(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

func (s *AccountService) GetCompany(ctx context.Context, companyID string) (domain.Company, error) {
	if companyID == "" {
		return domain.Company{}, domain.ErrInvalidID
	}
	return s.repo.GetCompany(ctx, companyID)
}
