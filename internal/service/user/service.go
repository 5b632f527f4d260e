package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
	"github.com/medoffice/agenda-api/internal/service/authz"
	"github.com/medoffice/agenda-api/pkg/auth"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/logger"
	"github.com/medoffice/agenda-api/pkg/security"
)

// Service manages back-office accounts. Blocking and unblocking pass
// through the authz gate: the acting admin re-enters their own password
// before the status flips.
type Service struct {
	repo   repository.UserRepository
	outbox repository.OutboxRepository
	gate   *authz.Service
	hasher security.PasswordHasher
	jwtSvc auth.JWTService
	expiry time.Duration
	logger *logger.Logger
}

func NewService(
	repo repository.UserRepository,
	outbox repository.OutboxRepository,
	gate *authz.Service,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	tokenExpiry time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		gate:   gate,
		hasher: hasher,
		jwtSvc: jwtSvc,
		expiry: tokenExpiry,
		logger: log,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.BadRequest("password does not meet requirements", err)
	}

	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Type:         req.Type,
		Status:       model.UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "type", user.Type)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("user", err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Login authenticates a user and issues an access token. Blocked accounts
// cannot log in; that is the whole point of blocking.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Unauthorized("invalid credentials", err)
	}

	if user.Status == model.UserStatusBlocked {
		return nil, errors.Forbidden("account is blocked", nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized("invalid credentials", err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, user.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login timestamp", "user_id", user.ID)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.expiry),
	}, nil
}

// BlockUser blocks the target account after the acting admin confirms
// with their password. A failed confirmation changes nothing; the caller
// may retry.
func (s *Service) BlockUser(ctx context.Context, adminEmail, adminPassword string, targetID uuid.UUID) (*model.User, error) {
	return s.setStatus(ctx, adminEmail, adminPassword, targetID, model.UserStatusBlocked, model.EventUserBlocked)
}

// UnblockUser restores a blocked account, gated the same way.
func (s *Service) UnblockUser(ctx context.Context, adminEmail, adminPassword string, targetID uuid.UUID) (*model.User, error) {
	return s.setStatus(ctx, adminEmail, adminPassword, targetID, model.UserStatusActive, model.EventUserUnblocked)
}

func (s *Service) setStatus(ctx context.Context, adminEmail, adminPassword string, targetID uuid.UUID, status, eventType string) (*model.User, error) {
	if err := s.gate.ConfirmAction(ctx, adminEmail, adminPassword); err != nil {
		return nil, err
	}

	user, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, errors.NotFound("user", err)
	}

	user.Status = status
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	s.emitEvent(ctx, eventType, user)
	s.logger.Info("user status changed", "user_id", user.ID, "status", status)
	return user, nil
}

func (s *Service) emitEvent(ctx context.Context, eventType string, user *model.User) {
	payload, err := json.Marshal(map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"status":  user.Status,
	})
	if err != nil {
		return
	}

	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
