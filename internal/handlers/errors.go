package handlers

import (
	"errors"
	"net/http"

	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/gin-gonic/gin"
)

const (
	KindValidation    = "validation"
	KindUnauthorized  = "unauthorized"
	KindForbidden     = "forbidden"
	KindStateConflict = "state_conflict"
	KindPollEnded     = "poll_ended"
	KindUnavailable   = "unavailable"
	KindInternal      = "internal"
)

// Exception is the body of an exception event and of every error response.
type Exception struct {
	Kind    string `json:"type"`
	Message string `json:"message"`
}

// classify maps a service error onto an HTTP status and an exception.
// Persistence and unknown failures don't leak their cause.
func classify(err error) (int, Exception) {
	switch {
	case errors.Is(err, polls.ErrValidation):
		return http.StatusBadRequest, Exception{KindValidation, err.Error()}
	case errors.Is(err, polls.ErrAdminRequired):
		return http.StatusForbidden, Exception{KindForbidden, "admin privileges required"}
	case errors.Is(err, polls.ErrUnauthorized):
		return http.StatusUnauthorized, Exception{KindUnauthorized, "unauthorized"}
	case errors.Is(err, polls.ErrStateConflict):
		return http.StatusConflict, Exception{KindStateConflict, err.Error()}
	case errors.Is(err, polls.ErrPollEnded):
		return http.StatusNotFound, Exception{KindPollEnded, "poll ended"}
	case errors.Is(err, polls.ErrPersistence):
		return http.StatusServiceUnavailable, Exception{KindUnavailable, "temporarily unavailable, try again"}
	default:
		return http.StatusInternalServerError, Exception{KindInternal, "internal error"}
	}
}

func writeError(c *gin.Context, err error) {
	status, exc := classify(err)
	c.JSON(status, gin.H{"error": exc.Message, "type": exc.Kind})
}
