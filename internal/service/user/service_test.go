package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/service/authz"
	"github.com/medoffice/agenda-api/pkg/auth"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/logger"
	"github.com/medoffice/agenda-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("user", nil)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("user", nil)
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
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

func newTestService(t *testing.T) (*Service, *fakeOutboxRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	outbox := &fakeOutboxRepo{}
	hasher := security.NewBcryptHasher(4)
	gate := authz.NewService(repo, hasher, nil)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, outbox, gate, hasher, jwtSvc, time.Hour, logger.New(nil)), outbox
}

func createAdmin(t *testing.T, svc *Service) *model.User {
	t.Helper()
	admin, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email:    "admin@cabinet.fr",
		Name:     "Admin",
		Password: "admin-password",
		Type:     model.UserTypeAdmin,
	})
	require.NoError(t, err)
	return admin
}

func createSecretary(t *testing.T, svc *Service) *model.User {
	t.Helper()
	sec, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email:    "secretaire@cabinet.fr",
		Name:     "Secrétaire",
		Password: "secret-password",
		Type:     model.UserTypeSecretary,
	})
	require.NoError(t, err)
	return sec
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _ := newTestService(t)

	admin := createAdmin(t, svc)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "admin-password", admin.PasswordHash)
	assert.Equal(t, model.UserStatusActive, admin.Status)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	createAdmin(t, svc)
	ctx := context.Background()

	token, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "admin@cabinet.fr",
		Password: "admin-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "admin@cabinet.fr",
		Password: "wrong",
	})
	assert.Error(t, err)
}

func TestBlockedUserCannotLogin(t *testing.T) {
	svc, _ := newTestService(t)
	createAdmin(t, svc)
	sec := createSecretary(t, svc)
	ctx := context.Background()

	_, err := svc.BlockUser(ctx, "admin@cabinet.fr", "admin-password", sec.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "secretaire@cabinet.fr",
		Password: "secret-password",
	})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "account is blocked", appErr.Message)
}

func TestBlockUserRequiresAdminPassword(t *testing.T) {
	svc, _ := newTestService(t)
	createAdmin(t, svc)
	sec := createSecretary(t, svc)
	ctx := context.Background()

	_, err := svc.BlockUser(ctx, "admin@cabinet.fr", "wrong-password", sec.ID)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, authz.MsgBadAdminPassword, appErr.Message)

	// The target is untouched after the failed confirmation.
	unchanged, err := svc.GetUser(ctx, sec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, unchanged.Status)
}

func TestBlockAndUnblockEmitEvents(t *testing.T) {
	svc, outbox := newTestService(t)
	createAdmin(t, svc)
	sec := createSecretary(t, svc)
	ctx := context.Background()

	blocked, err := svc.BlockUser(ctx, "admin@cabinet.fr", "admin-password", sec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusBlocked, blocked.Status)

	restored, err := svc.UnblockUser(ctx, "admin@cabinet.fr", "admin-password", sec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, restored.Status)

	require.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventUserBlocked, outbox.events[0].EventType)
	assert.Equal(t, model.EventUserUnblocked, outbox.events[1].EventType)
}
