package source

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
	"github.com/medoffice/agenda-api/pkg/errors"
)

const (
	cacheKey      = "sources"
	cacheDuration = 5 * time.Minute
)

// Service serves the appointment-source catalog. Reads go through a short
// cache: the catalog changes rarely and every form open hits it. Form
// sessions snapshot the catalog at open, so an update does not refresh a
// dialog that is already on screen.
type Service struct {
	repo  repository.SourceRepository
	cache *cache.Cache
}

func NewService(repo repository.SourceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheDuration, 10*time.Minute),
	}
}

func (s *Service) List(ctx context.Context) ([]model.AppointmentSource, error) {
	if v, ok := s.cache.Get(cacheKey); ok {
		return v.([]model.AppointmentSource), nil
	}

	sources, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		sources = model.DefaultSources
	}

	s.cache.Set(cacheKey, sources, cache.DefaultExpiration)
	return sources, nil
}

// Update replaces the catalog. The phone entry is the default for new
// drafts and must survive every edit.
func (s *Service) Update(ctx context.Context, sources []model.AppointmentSource) ([]model.AppointmentSource, error) {
	if len(sources) == 0 {
		return nil, errors.BadRequest("source catalog cannot be empty", nil)
	}

	hasPhone := false
	for _, src := range sources {
		if src.ID == "" || src.Label == "" {
			return nil, errors.BadRequest("every source needs an id and a label", nil)
		}
		if src.ID == model.SourcePhone {
			hasPhone = true
		}
	}
	if !hasPhone {
		return nil, errors.BadRequest("the phone source cannot be removed", nil)
	}

	if err := s.repo.Replace(ctx, sources); err != nil {
		return nil, fmt.Errorf("failed to update sources: %w", err)
	}

	s.cache.Delete(cacheKey)
	return sources, nil
}

// Default returns the id new drafts start on.
func (s *Service) Default() string {
	return model.SourcePhone
}
