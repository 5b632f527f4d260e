package model

import (
	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

// Patient is a directory entry. Field names follow the office's French
// vocabulary, which is also what the calendar clients exchange.
type Patient struct {
	Base
	ClinicID  uuid.UUID     `db:"clinic_id" json:"clinic_id"`
	Nom       string        `db:"nom" json:"nom"`
	Prenom    string        `db:"prenom" json:"prenom"`
	Telephone string        `db:"telephone" json:"telephone"`
	Email     string        `db:"email" json:"email,omitempty"`
	Status    PatientStatus `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Prenom    string `json:"prenom" binding:"required"`
	Telephone string `json:"telephone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type UpdatePatientRequest struct {
	Nom       *string `json:"nom"`
	Prenom    *string `json:"prenom"`
	Telephone *string `json:"telephone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
