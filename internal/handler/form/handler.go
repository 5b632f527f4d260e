package form

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/form"
	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/service/appointment"
	"github.com/medoffice/agenda-api/internal/service/patient"
	"github.com/medoffice/agenda-api/internal/service/source"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/httputil"
)

// Handler exposes the appointment-form session lifecycle: open, edit,
// submit or discard. Each route returns the full session view so the
// client can rerender the dialog after every interaction.
type Handler struct {
	forms        *form.Service
	patients     *patient.Service
	appointments *appointment.Service
	sources      *source.Service
}

func NewHandler(
	forms *form.Service,
	patients *patient.Service,
	appointments *appointment.Service,
	sources *source.Service,
) *Handler {
	return &Handler{
		forms:        forms,
		patients:     patients,
		appointments: appointments,
		sources:      sources,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/form/sessions")
	{
		sessions.POST("", h.OpenSession)
		sessions.GET("/:id", h.GetSession)
		sessions.POST("/:id/search", h.SearchPatients)
		sessions.POST("/:id/select", h.SelectPatient)
		sessions.POST("/:id/patients", h.CreatePatient)
		sessions.PUT("/:id/mode", h.SetMode)
		sessions.PATCH("/:id", h.UpdateDraft)
		sessions.POST("/:id/submit", h.SubmitSession)
		sessions.DELETE("/:id", h.DiscardSession)
		sessions.DELETE("/:id/appointment", h.DeleteAppointment)
	}
}

// sessionView is what every form route answers with: the session state
// plus the derived field visibility and whether delete is available.
type sessionView struct {
	*form.Session
	Visibility form.Visibility           `json:"visibility"`
	Editing    bool                      `json:"editing"`
	Sources    []model.AppointmentSource `json:"sources,omitempty"`
}

func (h *Handler) view(c *gin.Context, s *form.Session) sessionView {
	sources, err := h.sources.List(c.Request.Context())
	if err != nil {
		// The form still works without the catalog; the draft keeps its
		// current source value.
		sources = nil
	}
	return sessionView{
		Session:    s,
		Visibility: s.Visibility(),
		Editing:    s.Editing(),
		Sources:    sources,
	}
}

func (h *Handler) OpenSession(c *gin.Context) {
	var req form.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.Open(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, h.view(c, session))
}

func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.forms.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, h.view(c, session))
}

func (h *Handler) SearchPatients(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.Search(c.Request.Context(), id, req.Query)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, h.view(c, session))
}

func (h *Handler) SelectPatient(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req struct {
		PatientID uuid.UUID `json:"patient_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.SelectPatient(c.Request.Context(), id, req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, h.view(c, session))
}

// CreatePatient adds a patient to the directory mid-booking and selects
// them in the session, the same way the new-patient dialog behaves.
func (h *Handler) CreatePatient(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	created, err := h.patients.CreatePatient(c.Request.Context(), session.ClinicID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	session, err = h.forms.AttachCreatedPatient(c.Request.Context(), id, created)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, h.view(c, session))
}

func (h *Handler) SetMode(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Mode       form.EntryMode `json:"mode" binding:"required"`
		ClinicName string         `json:"clinicName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.SetMode(c.Request.Context(), id, req.Mode, req.ClinicName)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, h.view(c, session))
}

func (h *Handler) UpdateDraft(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var patch form.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(err.Error(), err))
		return
	}

	session, err := h.forms.Update(c.Request.Context(), id, &patch)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, h.view(c, session))
}

// SubmitSession normalizes the draft and persists it as an appointment.
// The session is gone afterwards; a retry needs a fresh open.
func (h *Handler) SubmitSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	submission, err := h.forms.Submit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	apt, err := h.appointments.Record(c.Request.Context(), submission)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) DiscardSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	h.forms.Discard(c.Request.Context(), id)
	httputil.RespondWithSuccess(c, gin.H{"discarded": true})
}

// DeleteAppointment removes the appointment a session is editing, then
// discards the session. Available in edit mode only.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.forms.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if !session.Editing() {
		httputil.RespondWithError(c, errors.BadRequest("session is not editing an appointment", nil))
		return
	}

	aptID, err := uuid.Parse(session.Existing.ID)
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid appointment id", err))
		return
	}

	if err := h.appointments.DeleteAppointment(c.Request.Context(), aptID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.forms.Discard(c.Request.Context(), id)
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid session ID", err))
		return uuid.Nil, false
	}
	return id, true
}
