package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/handler/middleware"
)

type caller struct {
	ID   uuid.UUID
	Role string
}

func callerFrom(c *gin.Context) (caller, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return caller{}, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return caller{}, false
	}
	return caller{ID: id, Role: c.GetString(middleware.ContextRole)}, true
}
