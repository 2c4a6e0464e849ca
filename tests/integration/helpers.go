package integration

import (
	"time"

	"modgate/internal/config"
	"modgate/internal/logger"
	"modgate/internal/moderation"
	"modgate/pkg/models"
)

const containerStartupTimeout = 60

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestRulesConfig() config.RulesConfig {
	return config.RulesConfig{
		WorkingHoursCheckEnabled:     true,
		WorkingHoursCategories:       []string{"TECHNICAL"},
		WorkingHoursStart:            "09:00",
		WorkingHoursEnd:              "18:00",
		ActiveRequestsCheckEnabled:   true,
		MaxActiveRequestsPerCategory: 1,
	}
}

// 2026-08-26 is a Wednesday inside the configured working hours.
func workdayTimestamp() time.Time {
	return time.Date(2026, 8, 26, 11, 0, 0, 0, time.UTC)
}

func createTestEvent(eventID, customerID, category string) *models.RequestEvent {
	return &models.RequestEvent{
		EventID:    eventID,
		CustomerID: customerID,
		RequestID:  "req-" + eventID,
		Category:   category,
		Subject:    "integration test request",
		Priority:   models.PriorityMedium,
		Timestamp:  workdayTimestamp(),
	}
}

func createTestRecord(eventID, customerID string, outcome moderation.Outcome) *moderation.ProcessedRecord {
	return &moderation.ProcessedRecord{
		EventID:     eventID,
		CustomerID:  customerID,
		Category:    "TECHNICAL",
		Outcome:     outcome,
		ProcessedAt: time.Now(),
		ExpireAt:    time.Now().Add(30 * 24 * time.Hour),
	}
}
