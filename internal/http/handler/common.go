package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/service"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

// newValidator reports field errors under their query parameter names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("query"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	errors := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fieldName := toJSONFieldName(fe.Field())
			errors[fieldName] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more query parameters failed validation",
		Errors: errors,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "number":
		return "Must be a non-negative whole number"
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	default:
		return domain.ErrorTypeInternal
	}
}

// handleServiceError maps analytics errors onto HTTP responses.
// Only unexpected failures are logged; their detail is not exposed.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, operation string) {
	var notFound *domain.NotFoundError
	var invalidRange *domain.InvalidRangeError

	switch {
	case errors.As(err, &notFound):
		respondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &invalidRange):
		respondWithError(w, http.StatusBadRequest, invalidRange.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("failed to "+operation, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+operation)
	}
}

// parseIDParam parses a path UUID, answering 400 when malformed
func parseIDParam(w http.ResponseWriter, raw, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID: must be a valid UUID", entity))
		return uuid.Nil, false
	}
	return id, true
}

// filterQuery holds the raw opportunity filter parameters
type filterQuery struct {
	TeamID           string `query:"teamId" validate:"omitempty,uuid"`
	AccountManagerID string `query:"accountManagerId" validate:"omitempty,uuid"`
	CompanyID        string `query:"companyId" validate:"omitempty,uuid"`
	From             string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To               string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	MinAmount        string `query:"minAmount" validate:"omitempty,numeric"`
	MaxAmount        string `query:"maxAmount" validate:"omitempty,numeric"`
}

func newFilterQuery(q url.Values) filterQuery {
	return filterQuery{
		TeamID:           q.Get("teamId"),
		AccountManagerID: q.Get("accountManagerId"),
		CompanyID:        q.Get("companyId"),
		From:             q.Get("from"),
		To:               q.Get("to"),
		MinAmount:        q.Get("minAmount"),
		MaxAmount:        q.Get("maxAmount"),
	}
}

// toFilter converts validated parameters. The to date covers its whole day.
func (q filterQuery) toFilter() *domain.OpportunityFilter {
	f := &domain.OpportunityFilter{
		TeamID:           optionalUUID(q.TeamID),
		AccountManagerID: optionalUUID(q.AccountManagerID),
		CompanyID:        optionalUUID(q.CompanyID),
		CreatedFrom:      optionalDate(q.From),
		MinAmount:        optionalFloat(q.MinAmount),
		MaxAmount:        optionalFloat(q.MaxAmount),
	}
	if to := optionalDate(q.To); to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.CreatedTo = &end
	}
	return f
}

// proposalQuery adds proposal attributes to the opportunity filter
type proposalQuery struct {
	filterQuery
	TemplateID string `query:"templateId" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,oneof=DRAFT PENDING_APPROVAL APPROVED SENT ACCEPTED REJECTED EXPIRED"`
}

func (q proposalQuery) toFilter() *domain.ProposalFilter {
	f := &domain.ProposalFilter{
		OpportunityFilter: *q.filterQuery.toFilter(),
		TemplateID:        optionalUUID(q.TemplateID),
	}
	if q.Status != "" {
		status := domain.ProposalStatus(q.Status)
		f.Status = &status
	}
	return f
}

// interactionQuery holds the interaction history parameters
type interactionQuery struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Type   string `query:"type" validate:"omitempty,oneof=CALL EMAIL MEETING NOTE"`
	UserID string `query:"userId" validate:"omitempty,uuid"`
	Limit  string `query:"limit" validate:"omitempty,number"`
}

func (q interactionQuery) toFilter(limit int) *domain.InteractionFilter {
	f := &domain.InteractionFilter{
		From:   optionalDate(q.From),
		UserID: optionalUUID(q.UserID),
		Limit:  limit,
	}
	if to := optionalDate(q.To); to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	if q.Type != "" {
		t := domain.ActivityType(q.Type)
		f.Type = &t
	}
	return f
}

// parseWindow validates a count parameter, falling back to def when absent
func parseWindow(w http.ResponseWriter, q url.Values, name string, def int) (int, bool) {
	raw := q.Get(name)
	if raw == "" {
		return def, true
	}
	if err := validate.Var(raw, "number"); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: must be a positive whole number", name))
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: out of range", name))
		return 0, false
	}
	return n, true
}

func optionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func optionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func optionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
