package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/model"
)

func TestDefaultDraft(t *testing.T) {
	now := time.Date(2024, 3, 15, 11, 22, 0, 0, time.UTC)

	d := defaultDraft(now, "", "")

	assert.Equal(t, ModeNewEntry, d.Mode)
	assert.Equal(t, "2024-03-15", d.Date)
	assert.Equal(t, "09:00", d.Time)
	assert.Equal(t, "30", d.Duration)
	assert.Equal(t, model.SourcePhone, d.Source)
	assert.Equal(t, model.AppointmentTypeNewConsultation, d.Type)
	assert.Equal(t, model.AppointmentStatusValidated, d.Status)
	assert.True(t, d.IsNewPatient)
	assert.Empty(t, d.Nom)
	assert.Empty(t, d.PatientID)
}

func TestDefaultDraftInitialOverrides(t *testing.T) {
	now := time.Date(2024, 3, 15, 11, 22, 0, 0, time.UTC)

	d := defaultDraft(now, "2024-04-01", "14:30")

	assert.Equal(t, "2024-04-01", d.Date)
	assert.Equal(t, "14:30", d.Time)
}

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"45 min", "45"},
		{"30", "30"},
		{"", "30"},
		{"min", "30"},
		{"1h", "1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDuration(tt.raw), "raw=%q", tt.raw)
	}
}

func TestFlexDurationUnmarshal(t *testing.T) {
	var payload struct {
		Duration FlexDuration `json:"duration"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"duration": "45 min"}`), &payload))
	assert.Equal(t, FlexDuration("45 min"), payload.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"duration": 60}`), &payload))
	assert.Equal(t, FlexDuration("60"), payload.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"duration": [1]}`), &payload))
}

func TestRehydrateDirectoryRecordWins(t *testing.T) {
	directory := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		Nom:       "Dupont",
		Prenom:    "Marie",
		Telephone: "0611111111",
	}

	existing := &ExistingAppointment{
		ID:        uuid.NewString(),
		PatientID: directory.ID.String(),
		Nom:       "Dupont-Old",
		Prenom:    "M.",
		Telephone: "0600000000",
		Time:      time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		Duration:  FlexDuration("45 min"),
	}

	d, matched := rehydrate(existing, []*model.Patient{directory}, "", "", time.UTC)

	require.NotNil(t, matched)
	assert.Equal(t, directory.ID, matched.ID)
	assert.Equal(t, ModeExistingPatient, d.Mode)
	assert.Equal(t, "Dupont", d.Nom)
	assert.Equal(t, "Marie", d.Prenom)
	assert.Equal(t, "0611111111", d.Telephone)
	assert.Equal(t, "2024-03-15", d.Date)
	assert.Equal(t, "14:30", d.Time)
	assert.Equal(t, "45", d.Duration)
}

func TestRehydrateFallsBackToStoredCopies(t *testing.T) {
	existing := &ExistingAppointment{
		ID:        uuid.NewString(),
		PatientID: uuid.NewString(), // removed from the directory
		Nom:       "Martin",
		Prenom:    "Paul",
		Telephone: "0622222222",
		Time:      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	d, matched := rehydrate(existing, nil, "", "", time.UTC)

	assert.Nil(t, matched)
	assert.Equal(t, ModeExistingPatient, d.Mode)
	assert.Equal(t, "Martin", d.Nom)
	assert.Equal(t, "Paul", d.Prenom)
	assert.Equal(t, "0622222222", d.Telephone)
	assert.Equal(t, "30", d.Duration)
}

func TestRehydrateModeDerivation(t *testing.T) {
	lunch, _ := rehydrate(&ExistingAppointment{ID: "a", IsLunchBreak: true}, nil, "", "", time.UTC)
	assert.Equal(t, ModeLunchBreak, lunch.Mode)

	clinical, _ := rehydrate(&ExistingAppointment{ID: "b", IsClinicalConsultation: true, ClinicName: "Clinique du Parc"}, nil, "", "", time.UTC)
	assert.Equal(t, ModeClinicalConsultation, clinical.Mode)
	assert.Equal(t, "Clinique du Parc", clinical.ClinicName)

	plain, _ := rehydrate(&ExistingAppointment{ID: "c", Nom: "Durand"}, nil, "", "", time.UTC)
	assert.Equal(t, ModeNewEntry, plain.Mode)
}

func TestRehydrateInitialOverridesBeatStoredTime(t *testing.T) {
	existing := &ExistingAppointment{
		ID:   uuid.NewString(),
		Time: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}

	d, _ := rehydrate(existing, nil, "2024-05-02", "16:00", time.UTC)

	assert.Equal(t, "2024-05-02", d.Date)
	assert.Equal(t, "16:00", d.Time)
}

func TestDraftFlags(t *testing.T) {
	d := Draft{Mode: ModeLunchBreak}
	isExisting, isLunch, isClinical := d.Flags()
	assert.False(t, isExisting)
	assert.True(t, isLunch)
	assert.False(t, isClinical)
}
