package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/jobseeker-api/internal/middleware"
	"github.com/yourusername/jobseeker-api/internal/service"
)

// getUserID returns the caller's internal user id, or uuid.Nil when anonymous
func getUserID(c *gin.Context) uuid.UUID {
	return middleware.GetUserID(c)
}

// requireUserID answers 401 for anonymous callers. Write routes call it
// before validating ids or bodies.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID := getUserID(c)
	if userID == uuid.Nil {
		respondError(c, service.ErrUnauthenticated, "")
		return uuid.Nil, false
	}
	return userID, true
}

// respondError maps service errors onto HTTP statuses. Upstream messages are
// passed through verbatim; everything else gets fallback.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to continue", "code": "unauthenticated"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_input"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": fallback, "code": "duplicate"})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		c.JSON(http.StatusBadGateway, gin.H{"error": service.UserMessage(err, fallback), "code": "upstream_unavailable"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.UserMessage(err, fallback)})
	}
}

// parseUUIDParam reads a UUID path parameter, answering 400 when malformed
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) now() time.Time {
	if h.clock != nil {
		return h.clock()
	}
	return time.Now()
}
