package form

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/pkg/errors"
	"github.com/medoffice/agenda-api/pkg/logger"
	"github.com/medoffice/agenda-api/pkg/metrics"
)

// PatientDirectory supplies the read-only patient snapshot a session
// searches over. The form never mutates the directory.
type PatientDirectory interface {
	List(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error)
}

// SlotProvider enumerates the bookable slot labels for a timezone.
type SlotProvider interface {
	Slots(timezone string) ([]string, error)
}

// SessionTTL is how long an untouched draft survives before eviction.
const SessionTTL = 30 * time.Minute

// Service orchestrates draft sessions. Sessions live in an expiring
// in-memory store; nothing about a draft persists beyond submit or
// eviction.
type Service struct {
	directory PatientDirectory
	slots     SlotProvider
	store     *cache.Cache
	validate  *validator.Validate
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(directory PatientDirectory, slots SlotProvider, log *logger.Logger, m *metrics.Metrics) *Service {
	store := cache.New(SessionTTL, 10*time.Minute)
	svc := &Service{
		directory: directory,
		slots:     slots,
		store:     store,
		validate:  validator.New(),
		logger:    log,
		metrics:   m,
	}

	// Delete also triggers eviction callbacks, so closed sessions are
	// excluded from the expiry count.
	store.OnEvicted(func(_ string, v interface{}) {
		sess, ok := v.(*Session)
		if ok && !sess.closed && m != nil {
			m.FormSessionsExpired.Inc()
		}
	})

	return svc
}

// OpenRequest initializes a session. Existing rehydrates edit mode;
// InitialDate/InitialTime override the slot the user clicked on the
// calendar grid.
type OpenRequest struct {
	ClinicID    uuid.UUID            `json:"clinic_id" binding:"required"`
	Timezone    string               `json:"timezone"`
	InitialDate string               `json:"initial_date" binding:"omitempty,datetime=2006-01-02"`
	InitialTime string               `json:"initial_time" binding:"omitempty,datetime=15:04"`
	Existing    *ExistingAppointment `json:"existing_appointment,omitempty"`
}

// Open builds a fresh or rehydrated session. Every call fully resets:
// there is no draft state carried over between opens.
func (s *Service) Open(ctx context.Context, req *OpenRequest) (*Session, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "GMT"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("unknown timezone %q", tz), err)
	}

	patients, err := s.directory.List(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient directory: %w", err)
	}

	slots, err := s.slots.Slots(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load time slots: %w", err)
	}

	session := &Session{
		ID:       uuid.New(),
		ClinicID: req.ClinicID,
		Timezone: tz,
		loc:      loc,
		patients: patients,
		slots:    slots,
	}

	if req.Existing != nil {
		draft, matched := rehydrate(req.Existing, patients, req.InitialDate, req.InitialTime, loc)
		session.Draft = draft
		session.Existing = req.Existing
		session.Selected = matched
	} else {
		session.Draft = defaultDraft(time.Now().In(loc), req.InitialDate, req.InitialTime)
	}

	s.store.Set(session.ID.String(), session, cache.DefaultExpiration)
	if s.metrics != nil {
		s.metrics.FormSessionsOpened.Inc()
	}
	s.logger.Debug("form session opened", "session_id", session.ID, "editing", session.Editing())

	return session, nil
}

// Get returns a live session or a not-found error once it expired.
func (s *Service) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	v, ok := s.store.Get(id.String())
	if !ok {
		return nil, errors.NotFound("form session", nil)
	}
	return v.(*Session), nil
}

// Search updates the session's query and recomputes the filtered set.
func (s *Service) Search(ctx context.Context, id uuid.UUID, query string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.search(query)
	s.touch(session)
	return session, nil
}

// SelectPatient marks a directory entry as the draft's patient. The
// patient must be in the session's snapshot.
func (s *Service) SelectPatient(ctx context.Context, id uuid.UUID, patientID uuid.UUID) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for _, p := range session.patients {
		if p.ID == patientID {
			session.selectPatient(p)
			s.touch(session)
			return session, nil
		}
	}
	return nil, errors.NotFound("patient", nil)
}

// AttachCreatedPatient treats a patient created through the new-patient
// dialog exactly like a search selection, and adds it to the snapshot so
// subsequent searches can find it.
func (s *Service) AttachCreatedPatient(ctx context.Context, id uuid.UUID, patient *model.Patient) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.patients = append(session.patients, patient)
	session.selectPatient(patient)
	s.touch(session)
	return session, nil
}

// SetMode switches the draft's entry mode.
func (s *Service) SetMode(ctx context.Context, id uuid.UUID, mode EntryMode, clinicName string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.setMode(mode, clinicName); err != nil {
		return nil, err
	}
	s.touch(session)
	return session, nil
}

// Update applies a partial draft edit.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *DraftPatch) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.applyPatch(patch); err != nil {
		return nil, err
	}
	s.touch(session)
	return session, nil
}

// Submit normalizes the draft into a Submission and closes the session.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*Submission, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	submission, err := session.submit(s.validate)
	if err != nil {
		return nil, err
	}

	session.closed = true
	s.store.Delete(session.ID.String())
	if s.metrics != nil {
		s.metrics.FormSessionsSubmitted.Inc()
	}
	s.logger.Info("form session submitted",
		"session_id", session.ID,
		"start_time", submission.Time,
		"editing", session.Editing(),
	)
	return submission, nil
}

// Discard drops a session without submitting.
func (s *Service) Discard(ctx context.Context, id uuid.UUID) {
	if session, err := s.Get(ctx, id); err == nil {
		session.mu.Lock()
		session.closed = true
		session.mu.Unlock()
	}
	s.store.Delete(id.String())
}

// touch resets the TTL so an active form doesn't expire under the user.
func (s *Service) touch(session *Session) {
	s.store.Set(session.ID.String(), session, cache.DefaultExpiration)
}
