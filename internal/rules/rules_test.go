package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/config"
	"modgate/pkg/models"
)

type fakeChecker struct {
	exists bool
	err    error
}

func (f *fakeChecker) Exists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.err
}

func TestDuplicateEventRule(t *testing.T) {
	event := testEvent()

	t.Run("new event passes", func(t *testing.T) {
		rule := NewDuplicateEventRule(&fakeChecker{exists: false})
		verdict, err := rule.Apply(context.Background(), event, nil)
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("seen event is rejected", func(t *testing.T) {
		rule := NewDuplicateEventRule(&fakeChecker{exists: true})
		verdict, err := rule.Apply(context.Background(), event, nil)
		require.NoError(t, err)
		assert.False(t, verdict.Passed)
		assert.Equal(t, "Event already processed", verdict.RejectionReason)
	})

	t.Run("checker error propagates", func(t *testing.T) {
		rule := NewDuplicateEventRule(&fakeChecker{err: errors.New("mongo down")})
		_, err := rule.Apply(context.Background(), event, nil)
		assert.Error(t, err)
	})
}

func activeRulesConfig() config.RulesConfig {
	return config.RulesConfig{
		ActiveRequestsCheckEnabled:   true,
		MaxActiveRequestsPerCategory: 1,
	}
}

func snapshotWith(requests ...models.OpenRequest) *models.EnrichmentSnapshot {
	return &models.EnrichmentSnapshot{
		CustomerID:   "cust-1",
		Available:    true,
		OpenRequests: requests,
	}
}

func TestActiveRequestRule(t *testing.T) {
	event := testEvent() // category TECHNICAL

	t.Run("no active requests passes", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, snapshotWith())
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("active request in same category rejects", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "technical", Status: models.RequestOpen},
		))
		require.NoError(t, err)
		assert.False(t, verdict.Passed)
		assert.Equal(t, "Active request already exists in this category", verdict.RejectionReason)
		assert.Equal(t, "Found 1 active request(s)", verdict.Details)
	})

	t.Run("closed requests do not count", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "TECHNICAL", Status: models.RequestResolved},
			models.OpenRequest{RequestID: "r2", Category: "TECHNICAL", Status: models.RequestClosed},
		))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("other category does not count", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "BILLING", Status: models.RequestOpen},
		))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("allow-listed category passes despite active requests", func(t *testing.T) {
		cfg := activeRulesConfig()
		cfg.AllowMultipleActiveCategories = []string{"TECHNICAL"}
		rule := NewActiveRequestRule(cfg)
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "TECHNICAL", Status: models.RequestOpen},
			models.OpenRequest{RequestID: "r2", Category: "TECHNICAL", Status: models.RequestPending},
		))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("degraded snapshot passes", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, models.DegradedSnapshot("cust-1", "timeout"))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("nil snapshot passes", func(t *testing.T) {
		rule := NewActiveRequestRule(activeRulesConfig())
		verdict, err := rule.Apply(context.Background(), event, nil)
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("disabled rule passes", func(t *testing.T) {
		cfg := activeRulesConfig()
		cfg.ActiveRequestsCheckEnabled = false
		rule := NewActiveRequestRule(cfg)
		assert.False(t, rule.Enabled())
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "TECHNICAL", Status: models.RequestOpen},
		))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("higher limit tolerates more requests", func(t *testing.T) {
		cfg := activeRulesConfig()
		cfg.MaxActiveRequestsPerCategory = 3
		rule := NewActiveRequestRule(cfg)
		verdict, err := rule.Apply(context.Background(), event, snapshotWith(
			models.OpenRequest{RequestID: "r1", Category: "TECHNICAL", Status: models.RequestOpen},
			models.OpenRequest{RequestID: "r2", Category: "TECHNICAL", Status: models.RequestInProgress},
		))
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})
}

func workingHoursConfig() config.RulesConfig {
	return config.RulesConfig{
		WorkingHoursCheckEnabled: true,
		WorkingHoursCategories:   []string{"TECHNICAL"},
		WorkingHoursStart:        "09:00",
		WorkingHoursEnd:          "18:00",
	}
}

// 2026-08-26 is a Wednesday.
func weekdayAt(hour, minute int) time.Time {
	return time.Date(2026, 8, 26, hour, minute, 0, 0, time.UTC)
}

func TestWorkingHoursRule(t *testing.T) {
	newRule := func(t *testing.T, cfg config.RulesConfig) *WorkingHoursRule {
		rule, err := NewWorkingHoursRule(cfg)
		require.NoError(t, err)
		return rule
	}

	eventAt := func(ts time.Time) *models.RequestEvent {
		e := testEvent()
		e.Timestamp = ts
		return e
	}

	tests := []struct {
		name     string
		ts       time.Time
		wantPass bool
	}{
		{"mid working day", weekdayAt(12, 30), true},
		{"exact opening time", weekdayAt(9, 0), true},
		{"exact closing time", weekdayAt(18, 0), true},
		{"minute before opening", weekdayAt(8, 59), false},
		{"minute after closing", weekdayAt(18, 1), false},
		{"late evening", weekdayAt(22, 15), false},
		{"saturday inside window", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), false},
		{"sunday inside window", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := newRule(t, workingHoursConfig())
			verdict, err := rule.Apply(context.Background(), eventAt(tt.ts), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPass, verdict.Passed)
			if !tt.wantPass {
				assert.Equal(t, "Request received outside working hours", verdict.RejectionReason)
				assert.Contains(t, verdict.Details, "Working hours: 09:00-18:00")
			}
		})
	}

	t.Run("unrestricted category passes off-hours", func(t *testing.T) {
		rule := newRule(t, workingHoursConfig())
		e := eventAt(weekdayAt(3, 0))
		e.Category = "BILLING"
		verdict, err := rule.Apply(context.Background(), e, nil)
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("zero timestamp uses wall clock", func(t *testing.T) {
		rule := newRule(t, workingHoursConfig())
		rule.now = func() time.Time { return weekdayAt(23, 0) }
		verdict, err := rule.Apply(context.Background(), testEvent(), nil)
		require.NoError(t, err)
		assert.False(t, verdict.Passed)
	})

	t.Run("disabled rule passes", func(t *testing.T) {
		cfg := workingHoursConfig()
		cfg.WorkingHoursCheckEnabled = false
		rule := newRule(t, cfg)
		assert.False(t, rule.Enabled())
		verdict, err := rule.Apply(context.Background(), eventAt(weekdayAt(3, 0)), nil)
		require.NoError(t, err)
		assert.True(t, verdict.Passed)
	})

	t.Run("invalid config rejected at construction", func(t *testing.T) {
		cfg := workingHoursConfig()
		cfg.WorkingHoursStart = "9am"
		_, err := NewWorkingHoursRule(cfg)
		assert.Error(t, err)
	})
}
