package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/form"
	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	byID map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	f.byID[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if apt, ok := f.byID[id]; ok {
		return apt, nil
	}
	return nil, errors.NotFound("appointment", nil)
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := f.byID[apt.ID]; !ok {
		return errors.NotFound("appointment", nil)
	}
	f.byID[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.byID {
		out = append(out, apt)
	}
	return out, nil
}

type fakePatientRepo struct{}

func (fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }
func (fakePatientRepo) Get(_ context.Context, _ uuid.UUID) (*model.Patient, error) {
	return nil, errors.NotFound("patient", nil)
}
func (fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }
func (fakePatientRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (fakePatientRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Patient, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeAppointmentRepo, *fakeOutboxRepo) {
	repo := newFakeAppointmentRepo()
	outbox := &fakeOutboxRepo{}
	svc := NewService(repo, fakePatientRepo{}, outbox, nil, logger.New(nil))
	return svc, repo, outbox
}

func testSubmission() *form.Submission {
	return &form.Submission{
		ClinicID:        uuid.New(),
		Nom:             "Durand",
		Prenom:          "Luc",
		Telephone:       "0633334444",
		Time:            time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		DurationMinutes: 45,
		Source:          model.SourcePhone,
		Type:            model.AppointmentTypeNewConsultation,
		Status:          model.AppointmentStatusValidated,
	}
}

func TestRecordCreates(t *testing.T) {
	svc, repo, outbox := newTestService()

	apt, err := svc.Record(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, apt.ID)
	assert.Equal(t, "Durand", apt.Nom)
	assert.Equal(t, 45, apt.DurationMinutes)
	assert.Contains(t, repo.byID, apt.ID)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, outbox.events[0].EventType)
}

func TestRecordUpdatesWhenEditing(t *testing.T) {
	svc, repo, outbox := newTestService()
	ctx := context.Background()

	created, err := svc.Record(ctx, testSubmission())
	require.NoError(t, err)

	sub := testSubmission()
	sub.AppointmentID = created.ID.String()
	sub.DurationMinutes = 60

	updated, err := svc.Record(ctx, sub)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 60, repo.byID[created.ID].DurationMinutes)

	require.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventAppointmentUpdated, outbox.events[1].EventType)
}

func TestRecordUpdateUnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService()

	sub := testSubmission()
	sub.AppointmentID = uuid.NewString()

	_, err := svc.Record(context.Background(), sub)
	assert.Error(t, err)
}

func TestDeleteAppointment(t *testing.T) {
	svc, repo, outbox := newTestService()
	ctx := context.Background()

	created, err := svc.Record(ctx, testSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAppointment(ctx, created.ID))
	assert.NotContains(t, repo.byID, created.ID)

	require.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventAppointmentDeleted, outbox.events[1].EventType)
}

func TestDeleteUnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.DeleteAppointment(context.Background(), uuid.New())
	assert.Error(t, err)
}
