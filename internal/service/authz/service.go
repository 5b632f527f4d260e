package authz

import (
	"context"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/metrics"
	"github.com/medoffice/agenda-api/pkg/security"
)

// MsgBadAdminPassword is the message the confirmation dialog displays on a
// failed check. The office staff works in French.
const MsgBadAdminPassword = "Mot de passe administrateur incorrect"

// Service is the confirmation gate for sensitive account actions. It
// checks the acting admin's own password against the stored hash; the
// check is recoverable with no attempt limit — a wrong password leaves the
// dialog open for a retry.
type Service struct {
	users   repository.UserRepository
	hasher  security.PasswordHasher
	metrics *metrics.Metrics
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, m *metrics.Metrics) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		metrics: m,
	}
}

// ConfirmAction validates the admin credential. Any failure — unknown
// account, non-admin account, wrong password — surfaces as the same
// message so the dialog leaks nothing about which part was wrong.
func (s *Service) ConfirmAction(ctx context.Context, adminEmail, password string) error {
	admin, err := s.users.GetByEmail(ctx, adminEmail)
	if err != nil {
		return s.deny(err)
	}
	if admin.Type != model.UserTypeAdmin || admin.Status != model.UserStatusActive {
		return s.deny(nil)
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return s.deny(err)
	}

	if s.metrics != nil {
		s.metrics.GateConfirmations.WithLabelValues("confirmed").Inc()
	}
	return nil
}

func (s *Service) deny(cause error) error {
	if s.metrics != nil {
		s.metrics.GateConfirmations.WithLabelValues("denied").Inc()
	}
	return errors.Unauthorized(MsgBadAdminPassword, cause)
}
