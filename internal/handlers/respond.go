package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirelink/backend/internal/apperr"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ServiceError maps a service-layer error onto an HTTP status. Unrecognized
// errors become a 500 with a generic message so internals never leak.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrAccessDenied):
		ErrorResponse(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, apperr.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "Not found")
	case errors.Is(err, apperr.ErrInvalidState):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func callerID(c *gin.Context) uuid.UUID {
	userID, _ := c.Get("user_id")
	return userID.(uuid.UUID)
}
