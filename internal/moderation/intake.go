package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"modgate/internal/broker"
	"modgate/internal/logger"
	"modgate/pkg/logging"
	"modgate/pkg/metrics"
	"modgate/pkg/models"
)

// Intake turns raw input-topic messages into pipeline runs. Malformed
// and invalid payloads are logged and dropped; they have no event to
// record an outcome for.
type Intake struct {
	service *Service
	logger  logger.Logger
}

func NewIntake(service *Service, log logger.Logger) *Intake {
	return &Intake{service: service, logger: log}
}

// Handler is the broker.HandlerFunc for the input topic.
func (i *Intake) Handler() broker.HandlerFunc {
	return func(ctx context.Context, msg broker.Message) error {
		var event models.RequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			metrics.IntakeMessagesTotal.WithLabelValues("malformed").Inc()
			i.logger.ErrorwCtx(ctx, "Failed to decode request event",
				"error", err,
				"key", string(msg.Key),
			)
			return nil
		}

		if err := event.Validate(); err != nil {
			metrics.IntakeMessagesTotal.WithLabelValues("invalid").Inc()
			i.logger.ErrorwCtx(ctx, "Discarding invalid request event",
				"error", err,
				"event_id", event.EventID,
				"customer_id", event.CustomerID,
			)
			return nil
		}

		Normalize(&event)

		ctx = logging.WithEventID(ctx, event.EventID)
		ctx = logging.WithCustomerID(ctx, event.CustomerID)

		result := i.service.ProcessEvent(ctx, &event)
		i.logger.InfowCtx(ctx, "Event intake completed",
			"event_id", result.EventID,
			"status", result.Status,
			"message", result.Message,
		)
		return nil
	}
}

// Normalize fills the fields the producer may omit: a fresh UUID for a
// missing event ID and the current instant for a zero timestamp.
func Normalize(event *models.RequestEvent) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}

// ResultLogger consumes the output topic and logs every published
// approval, giving operators a trace of what left the pipeline.
type ResultLogger struct {
	logger logger.Logger
}

func NewResultLogger(log logger.Logger) *ResultLogger {
	return &ResultLogger{logger: log}
}

func (r *ResultLogger) Handler() broker.HandlerFunc {
	return func(ctx context.Context, msg broker.Message) error {
		var result models.ApprovedResultEvent
		if err := json.Unmarshal(msg.Value, &result); err != nil {
			return fmt.Errorf("failed to decode approved result: %w", err)
		}

		r.logger.InfowCtx(ctx, "Moderation result observed",
			"original_event_id", result.OriginalEventID,
			"request_id", result.RequestID,
			"customer_id", result.CustomerID,
			"category", result.Category,
			"status", result.Status,
			"processed_at", result.ProcessedAt,
		)
		return nil
	}
}
