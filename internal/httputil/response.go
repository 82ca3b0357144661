package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Invalid("request", "body", err.Error())
	}
	return nil
}

// IDParam parses the named chi URL parameter as a positive id.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("request", name, "must be a positive integer")
	}
	return id, nil
}

// RespondWithServiceError maps the apperr taxonomy onto HTTP statuses.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()

	var (
		validationErr *apperr.ValidationError
		registeredErr *apperr.AlreadyRegisteredError
		notEnrolled   *apperr.NotEnrolledError
	)
	switch {
	case errors.As(err, &validationErr):
		logger.InfoContext(ctx, "validation failed", "entity", validationErr.Entity, "fields", validationErr.Fields)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  validationErr.Error(),
			Kind:   "validation",
			Fields: validationErr.Fields,
		})
	case errors.As(err, &registeredErr):
		logger.InfoContext(ctx, "already registered", "kind", registeredErr.Kind)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: registeredErr.Kind})
	case errors.As(err, &notEnrolled):
		logger.InfoContext(ctx, "students not enrolled", "commission_id", notEnrolled.CommissionID)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "enrollment"})
	case errors.Is(err, apperr.ErrNotFound):
		logger.InfoContext(ctx, "not found", "error", err)
		RespondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, apperr.ErrProjectAlreadyHasAnOwner):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "owner"})
	case errors.Is(err, apperr.ErrDuplicateRepository):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "duplicate"})
	case errors.Is(err, apperr.ErrExternalService):
		logger.WarnContext(ctx, "external service failed", "error", err)
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "external"})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		RespondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Kind: "credentials"})
	default:
		logger.ErrorContext(ctx, "internal error", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
