package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/gayatrijangid/panchakarma-booking-system/internal/domain/therapy"
	"github.com/gayatrijangid/panchakarma-booking-system/internal/service"
)

type TherapyHandler struct {
	therapySvc *service.TherapyService
}

func NewTherapyHandler(therapySvc *service.TherapyService) *TherapyHandler {
	return &TherapyHandler{therapySvc: therapySvc}
}

func (h *TherapyHandler) List(c *gin.Context) {
	q := &therapy.ListQuery{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		AvailableOnly: c.Query("all") == "",
	}

	therapies, err := h.therapySvc.ListTherapies(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, therapies)
}

func (h *TherapyHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.therapySvc.GetTherapy(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}
