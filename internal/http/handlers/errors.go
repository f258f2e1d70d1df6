package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/domain"
	"projectdesk/internal/http/middleware"
)

// ErrorResponse is the error envelope of every route.
type ErrorResponse struct {
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return http.StatusNotFound
		case errors.Is(err, domain.ErrForbidden):
			return http.StatusForbidden
		case errors.Is(err, domain.ErrDuplicate):
			return http.StatusConflict
		case errors.Is(err, domain.ErrTooManyAttempts):
			return http.StatusTooManyRequests
		}
		return http.StatusBadRequest
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps a service error to its status and envelope.
// Persistence causes are logged by the service and not sent to clients.
func RespondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
		var de domain.DatabaseError
		if errors.As(err, &de) && de.Op != "" {
			msg = "database error: " + de.Op
		}
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{
		Message:   msg,
		Code:      status,
		RequestID: middleware.GetRequestID(c),
	})
}

// respond writes a service result or its error.
func respond[T any](c *gin.Context, status int, v T, err error) {
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(status, v)
}
