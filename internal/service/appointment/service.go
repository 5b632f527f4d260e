package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/email"
	"github.com/medoffice/agenda-api/internal/form"
	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/logger"
)

// Service persists submitted drafts. It is the submit/delete callback
// target of the form sessions: the form emits a Submission, this service
// turns it into a calendar row, an outbox event, and (for booked patients
// with an email address) a confirmation mail.
type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	outbox   repository.OutboxRepository
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
	emailSvc email.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		outbox:   outbox,
		emailSvc: emailSvc,
		logger:   log,
	}
}

// Record persists a submission: update when it references an existing
// appointment, create otherwise.
func (s *Service) Record(ctx context.Context, sub *form.Submission) (*model.Appointment, error) {
	if sub.AppointmentID != "" {
		return s.update(ctx, sub)
	}
	return s.create(ctx, sub)
}

func (s *Service) create(ctx context.Context, sub *form.Submission) (*model.Appointment, error) {
	apt := sub.Appointment()
	apt.ID = uuid.New()

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentCreated, apt)
	s.notifyPatient(ctx, apt)

	s.logger.Info("appointment created",
		"appointment_id", apt.ID,
		"start_time", apt.StartTime,
		"patient_id", apt.PatientID,
	)
	return apt, nil
}

func (s *Service) update(ctx context.Context, sub *form.Submission) (*model.Appointment, error) {
	id, err := uuid.Parse(sub.AppointmentID)
	if err != nil {
		return nil, errors.BadRequest("invalid appointment id", err)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}

	apt := sub.Appointment()
	apt.Base = existing.Base

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentUpdated, apt)

	s.logger.Info("appointment updated", "appointment_id", apt.ID, "start_time", apt.StartTime)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// DeleteAppointment is the delete callback of the form: edit mode only,
// no confirmation step here. The caller provides its own safeguard.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return errors.NotFound("appointment", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentDeleted, apt)
	s.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

// emitEvent records the change in the outbox; the worker drains it to the
// broker. A failed write is logged, never propagated: calendar writes
// don't fail on event plumbing.
func (s *Service) emitEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(apt)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", "event_type", eventType)
		return
	}

	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}

// notifyPatient sends a booking confirmation when the appointment is for a
// directory patient with an email on file. Lunch breaks and clinical
// consultations have nobody to notify.
func (s *Service) notifyPatient(ctx context.Context, apt *model.Appointment) {
	if s.emailSvc == nil || apt.PatientID == "" || apt.IsLunchBreak || apt.IsClinicalConsultation {
		return
	}

	patientID, err := uuid.Parse(apt.PatientID)
	if err != nil {
		return
	}
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil || patient.Email == "" {
		return
	}

	when := apt.StartTime.Format("02/01/2006 à 15:04")
	if err := s.emailSvc.SendAppointmentConfirmation(ctx, patient.Email, patient.Prenom, when); err != nil {
		s.logger.Error(err, "failed to send confirmation email", "appointment_id", apt.ID)
	}
}

// UpcomingForPatient lists a patient's future appointments, oldest first.
func (s *Service) UpcomingForPatient(ctx context.Context, clinicID uuid.UUID, patientID string) ([]*model.Appointment, error) {
	return s.ListAppointments(ctx, &model.AppointmentFilters{
		ClinicID:  clinicID,
		PatientID: patientID,
		StartDate: time.Now(),
	})
}
