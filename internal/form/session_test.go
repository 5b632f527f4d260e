package form

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/pkg/logger"
)

type fakeDirectory struct {
	patients []*model.Patient
}

func (f *fakeDirectory) List(_ context.Context, _ uuid.UUID) ([]*model.Patient, error) {
	return f.patients, nil
}

type fakeSlots struct{}

func (fakeSlots) Slots(_ string) ([]string, error) {
	return []string{"09:00", "09:30", "10:00", "14:30"}, nil
}

func newTestService(patients ...*model.Patient) *Service {
	return NewService(&fakeDirectory{patients: patients}, fakeSlots{}, logger.New(nil), nil)
}

func openSession(t *testing.T, svc *Service, req *OpenRequest) *Session {
	t.Helper()
	if req == nil {
		req = &OpenRequest{ClinicID: uuid.New()}
	}
	session, err := svc.Open(context.Background(), req)
	require.NoError(t, err)
	return session
}

func TestOpenDefaults(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)

	assert.Equal(t, ModeNewEntry, session.Draft.Mode)
	assert.Equal(t, "09:00", session.Draft.Time)
	assert.Equal(t, "30", session.Draft.Duration)
	assert.Equal(t, model.SourcePhone, session.Draft.Source)
	assert.False(t, session.Editing())
	assert.Nil(t, session.Selected)
	assert.False(t, session.ShowResults)
}

func TestOpenRejectsUnknownTimezone(t *testing.T) {
	svc := newTestService()

	_, err := svc.Open(context.Background(), &OpenRequest{
		ClinicID: uuid.New(),
		Timezone: "Not/AZone",
	})
	assert.Error(t, err)
}

func TestOpenRehydratesExisting(t *testing.T) {
	directory := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		Nom:       "Dupont",
		Prenom:    "Marie",
		Telephone: "0611111111",
	}
	svc := newTestService(directory)

	session := openSession(t, svc, &OpenRequest{
		ClinicID: uuid.New(),
		Existing: &ExistingAppointment{
			ID:        uuid.NewString(),
			PatientID: directory.ID.String(),
			Nom:       "Stale",
			Time:      time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
			Duration:  FlexDuration("45 min"),
		},
	})

	assert.True(t, session.Editing())
	assert.Equal(t, ModeExistingPatient, session.Draft.Mode)
	assert.Equal(t, "Dupont", session.Draft.Nom)
	assert.Equal(t, "45", session.Draft.Duration)
	require.NotNil(t, session.Selected)
	assert.Equal(t, directory.ID, session.Selected.ID)
}

func TestSearchAndSelect(t *testing.T) {
	p := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		Nom:       "Benali",
		Prenom:    "Sara",
		Telephone: "0611111111",
	}
	svc := newTestService(p)
	session := openSession(t, svc, nil)
	ctx := context.Background()

	session, err := svc.Search(ctx, session.ID, "ben")
	require.NoError(t, err)
	assert.True(t, session.ShowResults)
	require.Len(t, session.Results, 1)

	session, err = svc.SelectPatient(ctx, session.ID, p.ID)
	require.NoError(t, err)

	assert.Equal(t, ModeExistingPatient, session.Draft.Mode)
	assert.Equal(t, p.ID.String(), session.Draft.PatientID)
	assert.Equal(t, "Benali", session.Draft.Nom)
	assert.False(t, session.Draft.IsNewPatient)
	assert.Empty(t, session.SearchTerm)
	assert.False(t, session.ShowResults)
}

func TestSearchWithoutMatchesHidesPanel(t *testing.T) {
	svc := newTestService(&model.Patient{Base: model.Base{ID: uuid.New()}, Nom: "Benali"})
	session := openSession(t, svc, nil)

	session, err := svc.Search(context.Background(), session.ID, "zzz")
	require.NoError(t, err)
	assert.Empty(t, session.Results)
	assert.False(t, session.ShowResults)
}

func TestSelectUnknownPatient(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)

	_, err := svc.SelectPatient(context.Background(), session.ID, uuid.New())
	assert.Error(t, err)
}

func TestSetModeClearsSelection(t *testing.T) {
	p := &model.Patient{Base: model.Base{ID: uuid.New()}, Nom: "Benali"}
	svc := newTestService(p)
	session := openSession(t, svc, nil)
	ctx := context.Background()

	_, err := svc.SelectPatient(ctx, session.ID, p.ID)
	require.NoError(t, err)

	session, err = svc.SetMode(ctx, session.ID, ModeLunchBreak, "")
	require.NoError(t, err)

	assert.Equal(t, ModeLunchBreak, session.Draft.Mode)
	assert.Nil(t, session.Selected)
	assert.Empty(t, session.Draft.PatientID)
	assert.Empty(t, session.SearchTerm)
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)

	_, err := svc.SetMode(context.Background(), session.ID, EntryMode("siesta"), "")
	assert.Error(t, err)
}

func TestVisibilityPerMode(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	v := session.Visibility()
	assert.True(t, v.ShowNameFields)
	assert.True(t, v.RequireNameFields)
	assert.True(t, v.ShowSourceSelector)
	assert.False(t, v.ShowPatientSearch)
	assert.False(t, v.ShowClinicName)

	session, err := svc.SetMode(ctx, session.ID, ModeExistingPatient, "")
	require.NoError(t, err)
	v = session.Visibility()
	assert.True(t, v.ShowPatientSearch)
	assert.False(t, v.ShowNameFields)
	assert.True(t, v.ShowSourceSelector)

	session, err = svc.SetMode(ctx, session.ID, ModeLunchBreak, "")
	require.NoError(t, err)
	v = session.Visibility()
	assert.False(t, v.ShowPatientSearch)
	assert.False(t, v.ShowNameFields)
	assert.False(t, v.ShowSourceSelector)
	assert.False(t, v.ShowClinicName)
	assert.NotEmpty(t, v.TimeOptions)
	assert.NotEmpty(t, v.DurationOptions)

	session, err = svc.SetMode(ctx, session.ID, ModeClinicalConsultation, "Clinique du Parc")
	require.NoError(t, err)
	v = session.Visibility()
	assert.True(t, v.ShowClinicName)
	assert.True(t, v.RequireClinicName)
	assert.False(t, v.ShowSourceSelector)
}

func TestUpdateRejectsBadDuration(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)

	bad := "20"
	_, err := svc.Update(context.Background(), session.ID, &DraftPatch{Duration: &bad})
	assert.Error(t, err)
}

func TestSubmitComposesTimestampInTimezone(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, &OpenRequest{
		ClinicID: uuid.New(),
		Timezone: "Europe/Paris",
	})
	ctx := context.Background()

	nom, prenom, tel := "Durand", "Luc", "0633334444"
	date, slot, duration := "2024-03-15", "14:30", "45"
	_, err := svc.Update(ctx, session.ID, &DraftPatch{
		Nom: &nom, Prenom: &prenom, Telephone: &tel,
		Date: &date, Time: &slot, Duration: &duration,
	})
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, session.ID)
	require.NoError(t, err)

	paris, _ := time.LoadLocation("Europe/Paris")
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, paris), sub.Time)
	assert.Equal(t, 45, sub.DurationMinutes)
	assert.Equal(t, "Durand", sub.Nom)
	assert.Empty(t, sub.PatientID)
	assert.False(t, sub.IsExistingPatient)

	// The session is gone after submit.
	_, err = svc.Get(ctx, session.ID)
	assert.Error(t, err)
}

func TestSubmitRequiresNameFieldsInNewEntryMode(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)

	_, err := svc.Submit(context.Background(), session.ID)
	assert.Error(t, err)
}

func TestSubmitLunchBreakNeedsNoPatient(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	_, err := svc.SetMode(ctx, session.ID, ModeLunchBreak, "")
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, sub.IsLunchBreak)
	assert.Empty(t, sub.PatientID)
}

func TestSubmitClinicalConsultationRequiresClinicName(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	_, err := svc.SetMode(ctx, session.ID, ModeClinicalConsultation, "")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, session.ID)
	assert.Error(t, err)

	_, err = svc.SetMode(ctx, session.ID, ModeClinicalConsultation, "Clinique du Parc")
	require.NoError(t, err)
	sub, err := svc.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, sub.IsClinicalConsultation)
	assert.Equal(t, "Clinique du Parc", sub.ClinicName)
}

func TestSubmitSelectedPatientIsAuthoritative(t *testing.T) {
	p := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		Nom:       "Benali",
		Prenom:    "Sara",
		Telephone: "0611111111",
	}
	svc := newTestService(p)
	session := openSession(t, svc, nil)
	ctx := context.Background()

	_, err := svc.SelectPatient(ctx, session.ID, p.ID)
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), sub.PatientID)
	assert.True(t, sub.IsExistingPatient)
}

func TestSubmitRejectsMalformedDate(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	_, err := svc.SetMode(ctx, session.ID, ModeLunchBreak, "")
	require.NoError(t, err)

	session.Draft.Date = "15/03/2024"
	_, err = svc.Submit(ctx, session.ID)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	svc.Discard(ctx, session.ID)

	_, err := svc.Get(ctx, session.ID)
	assert.Error(t, err)
}

func TestAttachCreatedPatient(t *testing.T) {
	svc := newTestService()
	session := openSession(t, svc, nil)
	ctx := context.Background()

	created := &model.Patient{
		Base:      model.Base{ID: uuid.New()},
		Nom:       "Nouveau",
		Prenom:    "Patient",
		Telephone: "0655555555",
	}
	session, err := svc.AttachCreatedPatient(ctx, session.ID, created)
	require.NoError(t, err)

	assert.Equal(t, ModeExistingPatient, session.Draft.Mode)
	assert.Equal(t, created.ID.String(), session.Draft.PatientID)

	// The snapshot now includes the new patient.
	session, err = svc.Search(ctx, session.ID, "nouveau")
	require.NoError(t, err)
	require.Len(t, session.Results, 1)
}
