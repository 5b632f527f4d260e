package slot

import (
	"github.com/gin-gonic/gin"

	"github.com/medoffice/agenda-api/internal/service/slot"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/httputil"
)

type Handler struct {
	service *slot.Service
}

func NewHandler(service *slot.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/slots", h.ListSlots)
}

// ListSlots returns the day's bookable slot labels for a timezone.
func (h *Handler) ListSlots(c *gin.Context) {
	tz := c.DefaultQuery("timezone", "GMT")

	slots, err := h.service.Slots(tz)
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	httputil.RespondWithSuccess(c, slots)
}
