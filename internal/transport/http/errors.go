package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FloresRKT/OS-Project/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidDate        = "invalid_date"
	codeMissingFields      = "missing_required_fields"
	codeInvalidID          = "invalid_id"
	codeInvalidCost        = "invalid_cost"
	codeInvalidSpaces      = "invalid_spaces"
	codeInvalidStatus      = "invalid_status"
	codeNoUpdateFields     = "no_update_fields"
	codeListingNotFound    = "listing_not_found"
	codeRentalNotFound     = "rental_not_found"
	codeQueueEntryNotFound = "queue_entry_not_found"
	codeUserNotFound       = "user_not_found"
	codeCompanyNotFound    = "company_not_found"
	codeListingFull        = "listing_full"
	codeQueueEmpty         = "queue_empty"
	codeEmailTaken         = "email_taken"
	codePlateTaken         = "plate_taken"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the shared domain sentinels onto HTTP status codes.
// Absent and wrong-state deliberately share one 404: the store cannot tell
// them apart.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingRequiredField):
		writeError(w, http.StatusBadRequest, codeMissingFields, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidCost):
		writeError(w, http.StatusBadRequest, codeInvalidCost, err.Error())
	case errors.Is(err, domain.ErrInvalidSpaces):
		writeError(w, http.StatusBadRequest, codeInvalidSpaces, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case errors.Is(err, domain.ErrNoUpdateFields):
		writeError(w, http.StatusBadRequest, codeNoUpdateFields, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		writeError(w, http.StatusNotFound, codeListingNotFound, err.Error())
	case errors.Is(err, domain.ErrRentalNotFound):
		writeError(w, http.StatusNotFound, codeRentalNotFound, err.Error())
	case errors.Is(err, domain.ErrQueueEntryNotFound):
		writeError(w, http.StatusNotFound, codeQueueEntryNotFound, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case errors.Is(err, domain.ErrCompanyNotFound):
		writeError(w, http.StatusNotFound, codeCompanyNotFound, err.Error())
	case errors.Is(err, domain.ErrQueueEmpty):
		writeError(w, http.StatusNotFound, codeQueueEmpty, err.Error())
	case errors.Is(err, domain.ErrListingFull):
		writeError(w, http.StatusConflict, codeListingFull, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrPlateTaken):
		writeError(w, http.StatusConflict, codePlateTaken, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
