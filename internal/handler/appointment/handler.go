package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/service/appointment"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/httputil"
)

// Handler serves the calendar read side. Writes go through the form
// session routes; the only direct mutation here is delete.
type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment ID", err))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid clinic ID", err))
		return
	}

	filters := &model.AppointmentFilters{
		ClinicID:  clinicID,
		PatientID: c.Query("patient_id"),
		Status:    c.Query("status"),
	}

	if date := c.Query("start_date"); date != "" {
		start, err := time.Parse("2006-01-02", date)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid start_date, expected YYYY-MM-DD", err))
			return
		}
		filters.StartDate = start
	}

	if date := c.Query("end_date"); date != "" {
		end, err := time.Parse("2006-01-02", date)
		if err != nil {
			httputil.RespondWithError(c, errors.BadRequest("invalid end_date, expected YYYY-MM-DD", err))
			return
		}
		filters.EndDate = end
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment ID", err))
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}
