package form

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/medoffice/agenda-api/internal/model"
)

// EntryMode classifies what kind of calendar block a draft describes. The
// four modes are mutually exclusive; field visibility and requiredness
// derive from the mode alone.
type EntryMode string

const (
	ModeNewEntry             EntryMode = "new_entry"
	ModeExistingPatient      EntryMode = "existing_patient"
	ModeLunchBreak           EntryMode = "lunch_break"
	ModeClinicalConsultation EntryMode = "clinical_consultation"
)

func (m EntryMode) valid() bool {
	switch m {
	case ModeNewEntry, ModeExistingPatient, ModeLunchBreak, ModeClinicalConsultation:
		return true
	}
	return false
}

// Defaults for a freshly opened draft.
const (
	DefaultTime     = "09:00"
	DefaultDuration = "30"
)

// Draft is the mutable in-progress appointment held by a form session.
// Date and Time stay strings until submission: they mirror what the
// calendar client renders and are only composed into a timestamp on submit.
type Draft struct {
	Mode EntryMode `json:"mode"`

	PatientID string `json:"patientId"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`

	Date     string `json:"date"`     // YYYY-MM-DD
	Time     string `json:"time"`     // HH:MM slot label
	Duration string `json:"duration"` // minutes, digits only

	ClinicName string `json:"clinicName"`

	Source        string `json:"source"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"paymentMethod"`
	Amount        string `json:"amount"`

	IsNewPatient bool `json:"isNewPatient"`
	IsDelegue    bool `json:"isDelegue"`
	IsGratuite   bool `json:"isGratuite"`
	IsCanceled   bool `json:"isCanceled"`
}

// Flags reports the draft's classification the way stored appointments
// carry it, as three booleans derived from the mode.
func (d *Draft) Flags() (isExistingPatient, isLunchBreak, isClinicalConsultation bool) {
	return d.Mode == ModeExistingPatient,
		d.Mode == ModeLunchBreak,
		d.Mode == ModeClinicalConsultation
}

// defaultDraft builds the create-mode draft: today (or the caller's initial
// date), the first morning slot, phone source, new-consultation type.
func defaultDraft(now time.Time, initialDate, initialTime string) Draft {
	d := Draft{
		Mode:     ModeNewEntry,
		Date:     now.Format("2006-01-02"),
		Time:     DefaultTime,
		Duration: DefaultDuration,
		Source:   model.SourcePhone,
		Type:     model.AppointmentTypeNewConsultation,
		Status:   model.AppointmentStatusValidated,

		IsNewPatient: true,
	}
	if initialDate != "" {
		d.Date = initialDate
	}
	if initialTime != "" {
		d.Time = initialTime
	}
	return d
}

// ExistingAppointment is the loosely-shaped record callers hand over when
// editing. Older calendar exports carry duration as "45 min" strings or as
// bare numbers, so Duration tolerates both.
type ExistingAppointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`

	Time     time.Time    `json:"time"`
	Duration FlexDuration `json:"duration"`

	IsLunchBreak           bool   `json:"isLunchBreak"`
	IsClinicalConsultation bool   `json:"isClinicalConsultation"`
	ClinicName             string `json:"clinicName"`

	Source        string `json:"source"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"paymentMethod"`
	Amount        string `json:"amount"`

	IsNewPatient bool `json:"isNewPatient"`
	IsDelegue    bool `json:"isDelegue"`
	IsGratuite   bool `json:"isGratuite"`
	IsCanceled   bool `json:"isCanceled"`
}

// FlexDuration accepts a JSON number or any string and keeps the raw text.
type FlexDuration string

func (f *FlexDuration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexDuration(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexDuration(n.String())
	return nil
}

func (f FlexDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// normalizeDuration strips everything but digits and falls back to the
// default when nothing usable remains ("45 min" -> "45", "" -> "30").
func normalizeDuration(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return DefaultDuration
	}
	return b.String()
}

// rehydrate overlays an existing appointment onto defaults. The directory
// record wins over the appointment's own name/phone copies; the copies are
// the fallback for appointments whose patient was removed.
func rehydrate(existing *ExistingAppointment, patients []*model.Patient, initialDate, initialTime string, loc *time.Location) (Draft, *model.Patient) {
	var matched *model.Patient
	if existing.PatientID != "" {
		for _, p := range patients {
			if p.ID.String() == existing.PatientID {
				matched = p
				break
			}
		}
	}

	d := defaultDraft(existing.Time.In(loc), initialDate, initialTime)

	d.PatientID = existing.PatientID
	d.Nom = firstNonEmpty(patientField(matched, func(p *model.Patient) string { return p.Nom }), existing.Nom)
	d.Prenom = firstNonEmpty(patientField(matched, func(p *model.Patient) string { return p.Prenom }), existing.Prenom)
	d.Telephone = firstNonEmpty(patientField(matched, func(p *model.Patient) string { return p.Telephone }), existing.Telephone)

	if initialDate == "" {
		d.Date = existing.Time.In(loc).Format("2006-01-02")
	}
	if initialTime == "" {
		d.Time = existing.Time.In(loc).Format("15:04")
	}
	d.Duration = normalizeDuration(string(existing.Duration))

	d.ClinicName = existing.ClinicName
	if existing.Source != "" {
		d.Source = existing.Source
	}
	if existing.Type != "" {
		d.Type = existing.Type
	}
	if existing.Status != "" {
		d.Status = existing.Status
	}
	d.Paid = existing.Paid
	d.PaymentMethod = existing.PaymentMethod
	d.Amount = existing.Amount
	d.IsNewPatient = existing.IsNewPatient
	d.IsDelegue = existing.IsDelegue
	d.IsGratuite = existing.IsGratuite
	d.IsCanceled = existing.IsCanceled

	switch {
	case existing.PatientID != "":
		d.Mode = ModeExistingPatient
	case existing.IsLunchBreak:
		d.Mode = ModeLunchBreak
	case existing.IsClinicalConsultation:
		d.Mode = ModeClinicalConsultation
	default:
		d.Mode = ModeNewEntry
	}

	return d, matched
}

func patientField(p *model.Patient, get func(*model.Patient) string) string {
	if p == nil {
		return ""
	}
	return get(p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
