package moderation

import (
	"context"
	"time"

	"modgate/internal/broker"
	"modgate/internal/logger"
	"modgate/pkg/metrics"
	"modgate/pkg/models"
)

// ResultPublisher emits approved events to the outbound topic.
type ResultPublisher interface {
	PublishApproved(ctx context.Context, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot)
}

type kafkaResultPublisher struct {
	producer broker.Producer
	topic    string
	logger   logger.Logger
}

func NewResultPublisher(producer broker.Producer, topic string, log logger.Logger) ResultPublisher {
	return &kafkaResultPublisher{
		producer: producer,
		topic:    topic,
		logger:   log,
	}
}

// PublishApproved writes the approval record keyed by customer ID so one
// customer's results stay ordered. Publish failures are logged, never
// surfaced: the stored outcome is already final by the time we get here.
func (p *kafkaResultPublisher) PublishApproved(ctx context.Context, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot) {
	result := models.ApprovedResultEvent{
		OriginalEventID:    event.EventID,
		RequestID:          event.RequestID,
		CustomerID:         event.CustomerID,
		Category:           event.Category,
		Subject:            event.Subject,
		Priority:           event.Priority,
		Status:             models.StatusApproved,
		EnrichmentSnapshot: snapshot,
		ProcessedAt:        time.Now(),
	}

	if err := p.producer.Publish(ctx, p.topic, event.CustomerID, result); err != nil {
		metrics.ResultPublishTotal.WithLabelValues("failed").Inc()
		p.logger.ErrorwCtx(ctx, "Failed to publish approved event",
			"event_id", event.EventID,
			"customer_id", event.CustomerID,
			"topic", p.topic,
			"error", err,
		)
		return
	}

	metrics.ResultPublishTotal.WithLabelValues("published").Inc()
	p.logger.InfowCtx(ctx, "Approved event published",
		"event_id", event.EventID,
		"customer_id", event.CustomerID,
		"topic", p.topic,
	)
}
