package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.NotFound("user", nil)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, errors.NotFound("user", nil)
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func newGate(t *testing.T, userType, status string) (*Service, string) {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*model.User{
		"admin@cabinet.fr": {
			Base:         model.Base{ID: uuid.New()},
			Email:        "admin@cabinet.fr",
			PasswordHash: hash,
			Type:         userType,
			Status:       status,
		},
	}}
	return NewService(repo, hasher, nil), "admin@cabinet.fr"
}

func TestConfirmActionCorrectPassword(t *testing.T) {
	gate, email := newGate(t, model.UserTypeAdmin, model.UserStatusActive)

	err := gate.ConfirmAction(context.Background(), email, "correct-password")
	assert.NoError(t, err)
}

func TestConfirmActionWrongPassword(t *testing.T) {
	gate, email := newGate(t, model.UserTypeAdmin, model.UserStatusActive)

	err := gate.ConfirmAction(context.Background(), email, "wrong-password")
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, MsgBadAdminPassword, appErr.Message)
}

func TestConfirmActionUnknownAccount(t *testing.T) {
	gate, _ := newGate(t, model.UserTypeAdmin, model.UserStatusActive)

	err := gate.ConfirmAction(context.Background(), "nobody@cabinet.fr", "correct-password")
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, MsgBadAdminPassword, appErr.Message)
}

func TestConfirmActionNonAdmin(t *testing.T) {
	gate, email := newGate(t, model.UserTypeSecretary, model.UserStatusActive)

	err := gate.ConfirmAction(context.Background(), email, "correct-password")
	assert.Error(t, err)
}

func TestConfirmActionBlockedAdmin(t *testing.T) {
	gate, email := newGate(t, model.UserTypeAdmin, model.UserStatusBlocked)

	err := gate.ConfirmAction(context.Background(), email, "correct-password")
	assert.Error(t, err)
}

func TestConfirmActionIsRetryable(t *testing.T) {
	gate, email := newGate(t, model.UserTypeAdmin, model.UserStatusActive)
	ctx := context.Background()

	// Wrong attempts don't lock anything out.
	for i := 0; i < 3; i++ {
		assert.Error(t, gate.ConfirmAction(ctx, email, "wrong-password"))
	}
	assert.NoError(t, gate.ConfirmAction(ctx, email, "correct-password"))
}
