package source

import (
	"github.com/gin-gonic/gin"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/service/source"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/httputil"
)

type Handler struct {
	service *source.Service
}

func NewHandler(service *source.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sources := r.Group("/sources")
	{
		sources.GET("", h.ListSources)
		sources.PUT("", h.UpdateSources)
	}
}

func (h *Handler) ListSources(c *gin.Context) {
	sources, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, sources)
}

// UpdateSources replaces the catalog. Admin only; the phone source must
// survive the edit.
func (h *Handler) UpdateSources(c *gin.Context) {
	var req model.UpdateSourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), req.Sources)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}
