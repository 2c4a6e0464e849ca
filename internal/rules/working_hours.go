package rules

import (
	"context"
	"fmt"
	"time"

	"modgate/internal/config"
	"modgate/pkg/models"
)

// WorkingHoursRule rejects events in restricted categories that arrive
// outside the configured weekday window. Bounds are inclusive; weekends
// always fail for restricted categories.
type WorkingHoursRule struct {
	cfg          config.RulesConfig
	startMinutes int
	endMinutes   int
	now          func() time.Time
}

func NewWorkingHoursRule(cfg config.RulesConfig) (*WorkingHoursRule, error) {
	start, err := config.ParseTimeOfDay(cfg.WorkingHoursStart)
	if err != nil {
		return nil, fmt.Errorf("invalid working_hours_start: %w", err)
	}
	end, err := config.ParseTimeOfDay(cfg.WorkingHoursEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid working_hours_end: %w", err)
	}

	return &WorkingHoursRule{
		cfg:          cfg,
		startMinutes: start,
		endMinutes:   end,
		now:          time.Now,
	}, nil
}

func (r *WorkingHoursRule) Name() string  { return "WORKING_HOURS_CHECK" }
func (r *WorkingHoursRule) Priority() int { return 3 }
func (r *WorkingHoursRule) Enabled() bool { return r.cfg.WorkingHoursCheckEnabled }

func (r *WorkingHoursRule) Apply(_ context.Context, event *models.RequestEvent, _ *models.EnrichmentSnapshot) (Verdict, error) {
	if !r.cfg.WorkingHoursCheckEnabled {
		return pass(r.Name()), nil
	}

	restricted := false
	for _, category := range r.cfg.WorkingHoursCategories {
		if category == event.Category {
			restricted = true
			break
		}
	}
	if !restricted {
		return pass(r.Name()), nil
	}

	eventTime := event.Timestamp
	if eventTime.IsZero() {
		eventTime = r.now()
	}

	if !r.withinWorkingHours(eventTime) {
		return reject(r.Name(), "Request received outside working hours",
			fmt.Sprintf("Time: %s, Working hours: %s-%s",
				eventTime.Format("15:04"),
				r.cfg.WorkingHoursStart,
				r.cfg.WorkingHoursEnd)), nil
	}

	return pass(r.Name()), nil
}

func (r *WorkingHoursRule) withinWorkingHours(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	return minutes >= r.startMinutes && minutes <= r.endMinutes
}
