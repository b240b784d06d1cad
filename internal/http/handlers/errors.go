// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Generic codes mirror HTTP status semantics. Service failures carry their
// own stable code (recipe_not_found, relation_exists, validation_error, ...)
// which is passed through unchanged, so clients can branch on it.
//
// Status mapping for service errors:
//
//	validation, conflict                       -> 400
//	relation exists / missing, self reference  -> 400
//	not found                                  -> 404
//	forbidden (not the author)                 -> 403
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_error",
//	  "field": "amount_range",
//	  "message": "ingredient amount must be between 1 and 5000"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/services"
)

// Codes for failures that do not come from a service.
const (
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// statusFor maps a classified service error to its HTTP status.
func statusFor(se *services.Error) int {
	switch {
	case errors.Is(se, services.ErrRelationExists),
		errors.Is(se, services.ErrRelationNotFound),
		errors.Is(se, services.ErrSelfReference):
		return http.StatusBadRequest
	case errors.Is(se, services.ErrValidation), errors.Is(se, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(se, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(se, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// failService writes err as an error envelope. Unclassified errors become a
// logged 500 without leaking their text.
func failService(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		failField(c, statusFor(se), se.Code, se.Rule, se.Msg)
		return
	}
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}
