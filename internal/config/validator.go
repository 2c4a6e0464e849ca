package config

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if err := validateDatabase(cfg.Database); err != nil {
		errors = append(errors, err)
	}

	if err := validateEnrichment(cfg.Enrichment); err != nil {
		errors = append(errors, err)
	}

	if err := validateRules(cfg.Moderation.Rules); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	if cfg.Type == "" {
		return &ValidationError{
			Field:   "broker.type",
			Message: "broker type is required",
		}
	}

	if cfg.Type != "kafka" {
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unsupported broker type %q", cfg.Type),
		}
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one broker address is required",
		}
	}

	if cfg.Kafka.GroupID == "" {
		return &ValidationError{
			Field:   "broker.kafka.group_id",
			Message: "consumer group id is required",
		}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.MongoDB.URI == "" {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "mongodb uri is required",
		}
	}
	return nil
}

func validateEnrichment(cfg EnrichmentConfig) error {
	if cfg.BaseURL == "" {
		return &ValidationError{
			Field:   "enrichment.base_url",
			Message: "enrichment service base url is required",
		}
	}

	if cfg.Retry.MaxAttempts < 1 {
		return &ValidationError{
			Field:   "enrichment.retry.max_attempts",
			Message: fmt.Sprintf("max attempts must be at least 1, got %d", cfg.Retry.MaxAttempts),
		}
	}

	if cfg.Retry.Multiplier < 1 {
		return &ValidationError{
			Field:   "enrichment.retry.multiplier",
			Message: "backoff multiplier must be >= 1",
		}
	}

	return nil
}

func validateRules(cfg RulesConfig) error {
	start, err := ParseTimeOfDay(cfg.WorkingHoursStart)
	if err != nil {
		return &ValidationError{
			Field:   "moderation.rules.working_hours_start",
			Message: err.Error(),
		}
	}

	end, err := ParseTimeOfDay(cfg.WorkingHoursEnd)
	if err != nil {
		return &ValidationError{
			Field:   "moderation.rules.working_hours_end",
			Message: err.Error(),
		}
	}

	if end < start {
		return &ValidationError{
			Field:   "moderation.rules.working_hours_end",
			Message: fmt.Sprintf("working hours end %q is before start %q", cfg.WorkingHoursEnd, cfg.WorkingHoursStart),
		}
	}

	if cfg.MaxActiveRequestsPerCategory < 1 {
		return &ValidationError{
			Field:   "moderation.rules.max_active_requests_per_category",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.MaxActiveRequestsPerCategory),
		}
	}

	return nil
}

// ParseTimeOfDay parses an "HH:MM" string into minutes since midnight.
func ParseTimeOfDay(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}
