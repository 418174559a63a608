package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/medops/clinic-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// statusFor maps application error codes onto HTTP statuses. Capacity and
// version conflicts are 409 so clients can retry; transition violations are
// 422 because retrying the same request can never succeed.
func statusFor(err error) (int, apperrors.ErrorCode) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, apperrors.ErrInternal
	}

	switch appErr.Code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound, appErr.Code
	case apperrors.ErrBadRequest, apperrors.ErrNotOperating, apperrors.ErrOutsideBusinessHours:
		return http.StatusBadRequest, appErr.Code
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized, appErr.Code
	case apperrors.ErrForbidden:
		return http.StatusForbidden, appErr.Code
	case apperrors.ErrCapacityExceeded, apperrors.ErrConcurrentModification:
		return http.StatusConflict, appErr.Code
	case apperrors.ErrIllegalTransition:
		return http.StatusUnprocessableEntity, appErr.Code
	default:
		return http.StatusInternalServerError, appErr.Code
	}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("trace_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		lastErr := c.Errors.Last()
		status, code := statusFor(lastErr.Err)

		message := lastErr.Error()
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}

		c.JSON(status, ErrorResponse{
			Code:    int(code),
			Message: message,
			TraceID: traceID,
		})
	}
}
