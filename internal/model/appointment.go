package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment kind/status values as the office uses them on the wire.
const (
	AppointmentTypeNewConsultation = "NOUVELLE CONSULTATION"
	AppointmentStatusValidated     = "Valider"
	AppointmentStatusCanceled      = "Annuler"
)

// DurationChoices are the only selectable slot lengths, in minutes.
var DurationChoices = []int{15, 30, 45, 60, 90, 120}

// Appointment is the persisted calendar entry. Nom/Prenom/Telephone are the
// appointment's own copies; when a patient record is linked the directory
// entry is authoritative and these act as a fallback.
type Appointment struct {
	Base
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	PatientID string    `db:"patient_id" json:"patientId"`
	Nom       string    `db:"nom" json:"nom"`
	Prenom    string    `db:"prenom" json:"prenom"`
	Telephone string    `db:"telephone" json:"telephone"`

	StartTime       time.Time `db:"start_time" json:"time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration"`

	IsLunchBreak           bool   `db:"is_lunch_break" json:"isLunchBreak"`
	IsClinicalConsultation bool   `db:"is_clinical_consultation" json:"isClinicalConsultation"`
	ClinicName             string `db:"clinic_name" json:"clinicName,omitempty"`

	Source        string `db:"source" json:"source"`
	Type          string `db:"type" json:"type"`
	Status        string `db:"status" json:"status"`
	Paid          bool   `db:"paid" json:"paid"`
	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`
	Amount        string `db:"amount" json:"amount,omitempty"`

	IsNewPatient bool `db:"is_new_patient" json:"isNewPatient"`
	IsDelegue    bool `db:"is_delegue" json:"isDelegue"`
	IsGratuite   bool `db:"is_gratuite" json:"isGratuite"`
	IsCanceled   bool `db:"is_canceled" json:"isCanceled"`
}

// AppointmentFilters narrows calendar listings.
type AppointmentFilters struct {
	ClinicID  uuid.UUID
	PatientID string
	StartDate time.Time
	EndDate   time.Time
	Status    string
}
