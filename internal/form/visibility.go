package form

import (
	"github.com/medoffice/agenda-api/internal/model"
)

// Visibility tells the client which blocks of the form to render and which
// fields submission will require. Precedence: patient search replaces the
// free-text block; lunch breaks and clinical consultations suppress both
// the free-text block and the source selector; clinical consultations add
// a required clinic name.
type Visibility struct {
	ShowPatientSearch  bool `json:"showPatientSearch"`
	ShowNameFields     bool `json:"showNameFields"`
	RequireNameFields  bool `json:"requireNameFields"`
	ShowClinicName     bool `json:"showClinicName"`
	RequireClinicName  bool `json:"requireClinicName"`
	ShowSourceSelector bool `json:"showSourceSelector"`

	// Always-on scheduling selects and their option sets.
	TimeOptions     []string `json:"timeOptions"`
	DurationOptions []int    `json:"durationOptions"`
}

func visibilityFor(mode EntryMode, slots []string) Visibility {
	v := Visibility{
		TimeOptions:     slots,
		DurationOptions: model.DurationChoices,
	}

	switch mode {
	case ModeExistingPatient:
		v.ShowPatientSearch = true
		v.ShowSourceSelector = true
	case ModeNewEntry:
		v.ShowNameFields = true
		v.RequireNameFields = true
		v.ShowSourceSelector = true
	case ModeLunchBreak:
		// scheduling selects only
	case ModeClinicalConsultation:
		v.ShowClinicName = true
		v.RequireClinicName = true
	}

	return v
}
