package form

import (
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/pkg/errors"
)

// Session owns one appointment draft from open to submit. A session is
// exclusive to its caller; the mutex only guards against a client retrying
// a request it thinks was lost.
type Session struct {
	ID       uuid.UUID `json:"id"`
	ClinicID uuid.UUID `json:"clinic_id"`
	Timezone string    `json:"timezone"`

	Draft    Draft                `json:"draft"`
	Existing *ExistingAppointment `json:"existing_appointment,omitempty"`

	SearchTerm  string           `json:"searchTerm"`
	Results     []*model.Patient `json:"results,omitempty"`
	ShowResults bool             `json:"showResults"`

	Selected *model.Patient `json:"selectedPatient,omitempty"`

	mu       sync.Mutex
	loc      *time.Location
	patients []*model.Patient
	slots    []string
	closed   bool
}

// Editing reports whether the session rehydrated an existing appointment,
// which is what enables the delete action.
func (s *Session) Editing() bool {
	return s.Existing != nil && s.Existing.ID != ""
}

// Visibility derives the rendered-field set from the current entry mode.
func (s *Session) Visibility() Visibility {
	return visibilityFor(s.Draft.Mode, s.slots)
}

// search recomputes the filtered patient set. The result panel shows only
// while there is something to pick; a cleared query or an unmatched one
// hides it.
func (s *Session) search(query string) {
	s.SearchTerm = query
	s.Results = matchPatients(s.patients, query)
	s.ShowResults = len(s.Results) > 0
}

// selectPatient copies the directory entry into the draft, flips the draft
// to existing-patient mode and collapses the search panel.
func (s *Session) selectPatient(p *model.Patient) {
	s.Selected = p
	s.Draft.Mode = ModeExistingPatient
	s.Draft.PatientID = p.ID.String()
	s.Draft.Nom = p.Nom
	s.Draft.Prenom = p.Prenom
	s.Draft.Telephone = p.Telephone
	s.Draft.IsNewPatient = false
	s.SearchTerm = ""
	s.Results = nil
	s.ShowResults = false
}

// setMode switches the entry mode. Leaving existing-patient mode drops the
// selection and any in-flight search, mirroring the unticked checkbox.
func (s *Session) setMode(mode EntryMode, clinicName string) error {
	if !mode.valid() {
		return errors.BadRequest("invalid entry mode", nil)
	}

	if s.Draft.Mode == ModeExistingPatient && mode != ModeExistingPatient {
		s.Selected = nil
		s.Draft.PatientID = ""
		s.SearchTerm = ""
		s.Results = nil
		s.ShowResults = false
	}

	s.Draft.Mode = mode
	if mode == ModeClinicalConsultation && clinicName != "" {
		s.Draft.ClinicName = clinicName
	}
	return nil
}

// DraftPatch is a partial update of the editable draft fields.
type DraftPatch struct {
	Nom        *string `json:"nom"`
	Prenom     *string `json:"prenom"`
	Telephone  *string `json:"telephone"`
	Date       *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time       *string `json:"time"`
	Duration   *string `json:"duration"`
	ClinicName *string `json:"clinicName"`

	Source        *string `json:"source"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	Paid          *bool   `json:"paid"`
	PaymentMethod *string `json:"paymentMethod"`
	Amount        *string `json:"amount"`

	IsDelegue  *bool `json:"isDelegue"`
	IsGratuite *bool `json:"isGratuite"`
	IsCanceled *bool `json:"isCanceled"`
}

func (s *Session) applyPatch(patch *DraftPatch) error {
	if patch.Duration != nil {
		n, err := strconv.Atoi(*patch.Duration)
		if err != nil || !validDuration(n) {
			return errors.BadRequest("duration must be one of 15, 30, 45, 60, 90, 120", err)
		}
		s.Draft.Duration = *patch.Duration
	}

	setIf(&s.Draft.Nom, patch.Nom)
	setIf(&s.Draft.Prenom, patch.Prenom)
	setIf(&s.Draft.Telephone, patch.Telephone)
	setIf(&s.Draft.Date, patch.Date)
	setIf(&s.Draft.Time, patch.Time)
	setIf(&s.Draft.ClinicName, patch.ClinicName)
	setIf(&s.Draft.Source, patch.Source)
	setIf(&s.Draft.Type, patch.Type)
	setIf(&s.Draft.Status, patch.Status)
	setIf(&s.Draft.PaymentMethod, patch.PaymentMethod)
	setIf(&s.Draft.Amount, patch.Amount)

	if patch.Paid != nil {
		s.Draft.Paid = *patch.Paid
	}
	if patch.IsDelegue != nil {
		s.Draft.IsDelegue = *patch.IsDelegue
	}
	if patch.IsGratuite != nil {
		s.Draft.IsGratuite = *patch.IsGratuite
	}
	if patch.IsCanceled != nil {
		s.Draft.IsCanceled = *patch.IsCanceled
	}
	return nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func validDuration(n int) bool {
	for _, c := range model.DurationChoices {
		if n == c {
			return true
		}
	}
	return false
}

// submit checks the mode's required fields, composes the absolute start
// timestamp from the draft's date and slot label, and emits the
// submission. Malformed date or time is rejected rather than silently
// composing a zero timestamp.
func (s *Session) submit(vd *validator.Validate) (*Submission, error) {
	d := &s.Draft

	switch d.Mode {
	case ModeNewEntry:
		if err := vd.Var(d.Nom, "required"); err != nil {
			return nil, errors.BadRequest("nom is required", err)
		}
		if err := vd.Var(d.Prenom, "required"); err != nil {
			return nil, errors.BadRequest("prenom is required", err)
		}
		if err := vd.Var(d.Telephone, "required"); err != nil {
			return nil, errors.BadRequest("telephone is required", err)
		}
	case ModeClinicalConsultation:
		if err := vd.Var(d.ClinicName, "required"); err != nil {
			return nil, errors.BadRequest("clinic name is required", err)
		}
	}

	day, err := time.ParseInLocation("2006-01-02", d.Date, s.loc)
	if err != nil {
		return nil, errors.BadRequest("invalid date, expected YYYY-MM-DD", err)
	}
	hm, err := time.Parse("15:04", d.Time)
	if err != nil {
		return nil, errors.BadRequest("invalid time, expected HH:MM", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, s.loc)

	duration, err := strconv.Atoi(d.Duration)
	if err != nil {
		return nil, errors.BadRequest("invalid duration", err)
	}
	if err := vd.Var(duration, "oneof=15 30 45 60 90 120"); err != nil {
		return nil, errors.BadRequest("duration must be one of 15, 30, 45, 60, 90, 120", err)
	}

	// The selected patient is authoritative; an unmatched draft submits
	// with an empty patient id even in existing-patient mode.
	patientID := ""
	if s.Selected != nil {
		patientID = s.Selected.ID.String()
	}

	isExisting, isLunch, isClinical := d.Flags()

	return &Submission{
		AppointmentID:          s.existingID(),
		ClinicID:               s.ClinicID,
		PatientID:              patientID,
		Nom:                    d.Nom,
		Prenom:                 d.Prenom,
		Telephone:              d.Telephone,
		Time:                   start,
		DurationMinutes:        duration,
		IsExistingPatient:      isExisting,
		IsLunchBreak:           isLunch,
		IsClinicalConsultation: isClinical,
		ClinicName:             d.ClinicName,
		Source:                 d.Source,
		Type:                   d.Type,
		Status:                 d.Status,
		Paid:                   d.Paid,
		PaymentMethod:          d.PaymentMethod,
		Amount:                 d.Amount,
		IsNewPatient:           d.IsNewPatient,
		IsDelegue:              d.IsDelegue,
		IsGratuite:             d.IsGratuite,
		IsCanceled:             d.IsCanceled,
	}, nil
}

func (s *Session) existingID() string {
	if s.Existing == nil {
		return ""
	}
	return s.Existing.ID
}
