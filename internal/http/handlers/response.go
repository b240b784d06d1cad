package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/foodgram-backend/internal/http/middleware"
)

// ErrorResponse is the body of every non-2xx answer.
//
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "recipe_not_found",
//	  "message": "recipe not found"
//	}
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable; clients branch on it.
	Code string `json:"code" example:"validation_error"`
	// Offending field or rule, for validation failures.
	Field   string `json:"field,omitempty" example:"amount_range"`
	Message string `json:"message" example:"ingredient amount must be between 1 and 5000"`
}

func fail(c *gin.Context, status int, code, msg string) {
	failField(c, status, code, "", msg)
}

// failField aborts with the error envelope. Server-side failures are logged
// with whatever causes handlers attached via c.Error.
func failField(c *gin.Context, status int, code, field, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("cause", c.Errors.String()).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.GetRequestID(c),
		Code:      code,
		Field:     field,
		Message:   msg,
	})
}

// Fail lets the router's NoRoute/NoMethod fallbacks use the envelope.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }
