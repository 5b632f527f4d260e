package form

import (
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/model"
)

// Submission is the normalized record a session emits on submit: the date
// and slot label composed into one absolute timestamp, the duration as an
// integer, and the selected patient's id (empty when none was matched).
type Submission struct {
	AppointmentID string    `json:"appointmentId,omitempty"`
	ClinicID      uuid.UUID `json:"clinic_id"`
	PatientID     string    `json:"patientId"`

	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`

	Time            time.Time `json:"time"`
	DurationMinutes int       `json:"duration"`

	IsExistingPatient      bool   `json:"isExistingPatient"`
	IsLunchBreak           bool   `json:"isLunchBreak"`
	IsClinicalConsultation bool   `json:"isClinicalConsultation"`
	ClinicName             string `json:"clinicName,omitempty"`

	Source        string `json:"source"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Amount        string `json:"amount,omitempty"`

	IsNewPatient bool `json:"isNewPatient"`
	IsDelegue    bool `json:"isDelegue"`
	IsGratuite   bool `json:"isGratuite"`
	IsCanceled   bool `json:"isCanceled"`
}

// Appointment maps the submission onto the persisted model.
func (s *Submission) Appointment() *model.Appointment {
	return &model.Appointment{
		ClinicID:               s.ClinicID,
		PatientID:              s.PatientID,
		Nom:                    s.Nom,
		Prenom:                 s.Prenom,
		Telephone:              s.Telephone,
		StartTime:              s.Time,
		DurationMinutes:        s.DurationMinutes,
		IsLunchBreak:           s.IsLunchBreak,
		IsClinicalConsultation: s.IsClinicalConsultation,
		ClinicName:             s.ClinicName,
		Source:                 s.Source,
		Type:                   s.Type,
		Status:                 s.Status,
		Paid:                   s.Paid,
		PaymentMethod:          s.PaymentMethod,
		Amount:                 s.Amount,
		IsNewPatient:           s.IsNewPatient,
		IsDelegue:              s.IsDelegue,
		IsGratuite:             s.IsGratuite,
		IsCanceled:             s.IsCanceled,
	}
}
