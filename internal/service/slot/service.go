package slot

import (
	"fmt"
	"time"
)

// Config bounds the bookable day. Times are wall-clock in the office's
// timezone; the step matches the calendar grid.
type Config struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
	StepMinutes int
}

// DefaultConfig is the office's working day: 09:00 to 18:30 on a
// half-hour grid.
func DefaultConfig() Config {
	return Config{
		OpenHour:    9,
		CloseHour:   18,
		CloseMinute: 30,
		StepMinutes: 30,
	}
}

// Service enumerates the slot labels the appointment form offers. The
// labels are opaque options to the form; only their order matters.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = 30
	}
	return &Service{cfg: cfg}
}

// Slots returns the ordered "HH:MM" labels for one working day. The
// timezone is validated so a bad identifier fails at open time instead of
// at submit.
func (s *Service) Slots(timezone string) ([]string, error) {
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}

	open := time.Date(0, 1, 1, s.cfg.OpenHour, s.cfg.OpenMinute, 0, 0, time.UTC)
	close := time.Date(0, 1, 1, s.cfg.CloseHour, s.cfg.CloseMinute, 0, 0, time.UTC)
	step := time.Duration(s.cfg.StepMinutes) * time.Minute

	var labels []string
	for t := open; !t.After(close); t = t.Add(step) {
		labels = append(labels, t.Format("15:04"))
	}
	return labels, nil
}
