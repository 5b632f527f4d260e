package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
	"github.com/medoffice/agenda-api/pkg/logger"
)

// Service owns the patient directory. The appointment form reads it
// through the form.PatientDirectory interface and requests creation here
// when the receptionist adds a patient mid-booking.
type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

func (s *Service) CreatePatient(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ClinicID:  clinicID,
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Telephone: req.Telephone,
		Email:     req.Email,
		Status:    model.PatientStatusActive,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info("patient created", "patient_id", patient.ID, "clinic_id", clinicID)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if req.Nom != nil {
		patient.Nom = *req.Nom
	}
	if req.Prenom != nil {
		patient.Prenom = *req.Prenom
	}
	if req.Telephone != nil {
		patient.Telephone = *req.Telephone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Status != nil {
		patient.Status = model.PatientStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.logger.Info("patient deleted", "patient_id", id)
	return nil
}

// List satisfies form.PatientDirectory.
func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
