package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/model"
)

type fakeSourceRepo struct {
	sources []model.AppointmentSource
}

func (f *fakeSourceRepo) List(_ context.Context) ([]model.AppointmentSource, error) {
	return f.sources, nil
}

func (f *fakeSourceRepo) Replace(_ context.Context, sources []model.AppointmentSource) error {
	f.sources = sources
	return nil
}

func TestListSeedsDefaults(t *testing.T) {
	svc := NewService(&fakeSourceRepo{})

	sources, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSources, sources)
}

func TestUpdateRejectsEmptyCatalog(t *testing.T) {
	svc := NewService(&fakeSourceRepo{})

	_, err := svc.Update(context.Background(), nil)
	assert.Error(t, err)
}

func TestUpdateKeepsPhoneSource(t *testing.T) {
	svc := NewService(&fakeSourceRepo{})

	_, err := svc.Update(context.Background(), []model.AppointmentSource{
		{ID: "website", Label: "Site Web"},
	})
	assert.Error(t, err)

	updated, err := svc.Update(context.Background(), []model.AppointmentSource{
		{ID: model.SourcePhone, Label: "Téléphone"},
		{ID: "website", Label: "Site Web"},
	})
	require.NoError(t, err)
	assert.Len(t, updated, 2)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &fakeSourceRepo{sources: []model.AppointmentSource{
		{ID: model.SourcePhone, Label: "Téléphone"},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.Update(ctx, []model.AppointmentSource{
		{ID: model.SourcePhone, Label: "Téléphone"},
		{ID: "referral", Label: "Recommandation"},
	})
	require.NoError(t, err)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestDefault(t *testing.T) {
	svc := NewService(&fakeSourceRepo{})
	assert.Equal(t, model.SourcePhone, svc.Default())
}
