package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, patient_id, nom, prenom, telephone,
			start_time, duration_minutes,
			is_lunch_break, is_clinical_consultation, clinic_name,
			source, type, status, paid, payment_method, amount,
			is_new_patient, is_delegue, is_gratuite, is_canceled,
			created_at, updated_at
		) VALUES (
			:id, :clinic_id, :patient_id, :nom, :prenom, :telephone,
			:start_time, :duration_minutes,
			:is_lunch_break, :is_clinical_consultation, :clinic_name,
			:source, :type, :status, :paid, :payment_method, :amount,
			:is_new_patient, :is_delegue, :is_gratuite, :is_canceled,
			:created_at, :updated_at
		)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND deleted_at IS NULL`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments SET
			patient_id = :patient_id, nom = :nom, prenom = :prenom, telephone = :telephone,
			start_time = :start_time, duration_minutes = :duration_minutes,
			is_lunch_break = :is_lunch_break, is_clinical_consultation = :is_clinical_consultation,
			clinic_name = :clinic_name,
			source = :source, type = :type, status = :status,
			paid = :paid, payment_method = :payment_method, amount = :amount,
			is_new_patient = :is_new_patient, is_delegue = :is_delegue,
			is_gratuite = :is_gratuite, is_canceled = :is_canceled,
			updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL
	`
	apt.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// Delete soft-deletes; the calendar filters deleted rows out but history
// stays queryable.
func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET deleted_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	conditions := []string{"clinic_id = $1", "deleted_at IS NULL"}
	args := []interface{}{filters.ClinicID}

	if filters.PatientID != "" {
		args = append(args, filters.PatientID)
		conditions = append(conditions, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filters.StartDate.IsZero() {
		args = append(args, filters.StartDate)
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if !filters.EndDate.IsZero() {
		args = append(args, filters.EndDate)
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", len(args)))
	}

	query := fmt.Sprintf(
		`SELECT * FROM appointments WHERE %s ORDER BY start_time`,
		strings.Join(conditions, " AND "),
	)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
