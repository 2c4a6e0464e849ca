package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10 * time.Second,
			WriteTimeoutSeconds: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", Database: "modgate"},
		},
		Broker: BrokerConfig{
			Type: "kafka",
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "moderation-service",
			},
		},
		Enrichment: EnrichmentConfig{
			BaseURL: "http://localhost:8081",
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: time.Second,
				Multiplier:      2.0,
			},
		},
		Moderation: ModerationConfig{
			Rules: RulesConfig{
				WorkingHoursStart:            "09:00",
				WorkingHoursEnd:              "18:00",
				MaxActiveRequestsPerCategory: 1,
			},
		},
	}
}

func TestValidateStatic_Valid(t *testing.T) {
	require.NoError(t, ValidateStatic(validConfig()))
}

func TestValidateStatic_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"missing brokers", func(c *Config) { c.Broker.Kafka.Brokers = nil }},
		{"missing group id", func(c *Config) { c.Broker.Kafka.GroupID = "" }},
		{"unsupported broker", func(c *Config) { c.Broker.Type = "rabbitmq" }},
		{"missing mongo uri", func(c *Config) { c.Database.MongoDB.URI = "" }},
		{"missing enrichment url", func(c *Config) { c.Enrichment.BaseURL = "" }},
		{"zero retry attempts", func(c *Config) { c.Enrichment.Retry.MaxAttempts = 0 }},
		{"bad hours format", func(c *Config) { c.Moderation.Rules.WorkingHoursStart = "9am" }},
		{"end before start", func(c *Config) {
			c.Moderation.Rules.WorkingHoursStart = "18:00"
			c.Moderation.Rules.WorkingHoursEnd = "09:00"
		}},
		{"zero max active", func(c *Config) { c.Moderation.Rules.MaxActiveRequestsPerCategory = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateStatic(cfg))
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	minutes, err := ParseTimeOfDay("09:00")
	require.NoError(t, err)
	assert.Equal(t, 540, minutes)

	minutes, err = ParseTimeOfDay("18:30")
	require.NoError(t, err)
	assert.Equal(t, 1110, minutes)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("")
	assert.Error(t, err)
}
