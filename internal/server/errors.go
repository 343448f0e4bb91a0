package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunsizer/sunsizer/internal/analysis"
	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/loads"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/sizing"
	"github.com/sunsizer/sunsizer/internal/solar"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware maps the last collected error to one JSON error
// envelope after the handler chain finishes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError keeps the wire contract narrow: every rejected request is a
// 400 with the domain message, everything else is an opaque 500.
func mapError(err error) (int, errorPayload) {
	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	}
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, analysis.ErrValidation),
		errors.Is(err, solar.ErrLocationNotFound),
		errors.Is(err, loads.ErrUnknownTemplate),
		errors.Is(err, loads.ErrInvalidHoursMode),
		errors.Is(err, constraint.ErrInvalidTopology),
		errors.Is(err, sizing.ErrInvalidScenario),
		errors.Is(err, sizing.ErrMissingProduct),
		errors.Is(err, refdata.ErrNoBatteryProduct):
		return true
	default:
		return false
	}
}
