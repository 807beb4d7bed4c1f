package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/FloresRKT/OS-Project/internal/app"
	"github.com/FloresRKT/OS-Project/internal/domain"
)

// AccountService is the identity surface used by the HTTP layer.
type AccountService interface {
	CreateUser(ctx context.Context, in app.CreateUserInput) (domain.User, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	CreateCompany(ctx context.Context, in app.CreateCompanyInput) (domain.Company, error)
	GetCompany(ctx context.Context, companyID string) (domain.Company, error)
}

// HandleUsers serves POST /users.
func HandleUsers(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createUserRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.CreateUser(r.Context(), app.CreateUserInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			PlateNumber: req.PlateNumber,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(userResponse{
			UserID:      user.ID,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Email:       user.Email,
			PlateNumber: user.PlateNumber,
			CreatedAt:   user.CreatedAt,
		})
	}
}

// HandleUser serves GET /users/{id}.
func HandleUser(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "users" || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		user, err := svc.GetUser(r.Context(), parts[1])
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userResponse{
			UserID:      user.ID,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Email:       user.Email,
			PlateNumber: user.PlateNumber,
			CreatedAt:   user.CreatedAt,
		})
	}
}

// HandleCompanies serves POST /companies.
func HandleCompanies(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createCompanyRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		company, err := svc.CreateCompany(r.Context(), app.CreateCompanyInput{
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(companyResponse{
			CompanyID: company.ID,
			Name:      company.Name,
			Email:     company.Email,
			CreatedAt: company.CreatedAt,
		})
	}
}

// HandleCompany dispatches /companies/{id} and /companies/{id}/listings.
func HandleCompany(accounts AccountService, listings CompanyListingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) == 2 && parts[0] == "companies" && parts[1] != "":
			company, err := accounts.GetCompany(r.Context(), parts[1])
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(companyResponse{
				CompanyID: company.ID,
				Name:      company.Name,
				Email:     company.Email,
				CreatedAt: company.CreatedAt,
			})

		case len(parts) == 3 && parts[0] == "companies" && parts[1] != "" && parts[2] == "listings":
			owned, err := listings.ListByCompany(r.Context(), parts[1])
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]listingResponse, 0, len(owned))
			for _, l := range owned {
				resp = append(resp, listingToResponse(l))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

// CompanyListingLister lists the listings a company owns, active or not.
type CompanyListingLister interface {
	ListByCompany(ctx context.Context, companyID string) ([]domain.Listing, error)
}

type createUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PlateNumber string `json:"plate_number"`
}

type createCompanyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PlateNumber string    `json:"plate_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type companyResponse struct {
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
