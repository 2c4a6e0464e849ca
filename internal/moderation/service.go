package moderation

import (
	"context"
	"time"

	"modgate/internal/enrichment"
	"modgate/internal/logger"
	"modgate/internal/rules"
	"modgate/pkg/errors"
	"modgate/pkg/metrics"
	"modgate/pkg/models"
)

// Service runs the moderation pipeline for one event: enrich, evaluate
// rules, persist the outcome, and re-publish approvals. ProcessEvent
// never returns an error; every run ends in a stored decision or an
// ERROR result, so the intake layer can always acknowledge.
type Service struct {
	fetcher   enrichment.Fetcher
	engine    *rules.Engine
	store     ResultStore
	publisher ResultPublisher
	recordTTL time.Duration
	logger    logger.Logger
}

func NewService(
	fetcher enrichment.Fetcher,
	engine *rules.Engine,
	store ResultStore,
	publisher ResultPublisher,
	recordTTL time.Duration,
	log logger.Logger,
) *Service {
	return &Service{
		fetcher:   fetcher,
		engine:    engine,
		store:     store,
		publisher: publisher,
		recordTTL: recordTTL,
		logger:    log,
	}
}

func (s *Service) ProcessEvent(ctx context.Context, event *models.RequestEvent) Result {
	start := time.Now()

	result, err := s.process(ctx, event)
	if err != nil {
		s.logger.ErrorwCtx(ctx, "Event processing failed",
			"event_id", event.EventID,
			"customer_id", event.CustomerID,
			"error", err,
		)
		s.saveErrorRecord(ctx, event, err.Error())
		result = Result{
			EventID:     event.EventID,
			Status:      StatusError,
			Message:     "Processing error: " + err.Error(),
			ProcessedAt: time.Now(),
		}
	}

	metrics.ObserveModerationDuration(time.Since(start), string(result.Status))
	return result
}

func (s *Service) process(ctx context.Context, event *models.RequestEvent) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RecoverPanic(r)
		}
	}()

	s.logger.InfowCtx(ctx, "Processing event",
		"event_id", event.EventID,
		"customer_id", event.CustomerID,
		"category", event.Category,
	)

	snapshot := s.fetcher.FetchCustomer(ctx, event.CustomerID)
	verdict := s.engine.Evaluate(ctx, event, snapshot)

	outcome := s.mapOutcome(verdict)
	record := &ProcessedRecord{
		EventID:     event.EventID,
		CustomerID:  event.CustomerID,
		Category:    event.Category,
		Outcome:     outcome,
		ProcessedAt: time.Now(),
		ExpireAt:    TTLFor(s.recordTTL),
	}
	if !verdict.AllPassed && verdict.FailingVerdict != nil {
		record.RejectionReason = verdict.FailingVerdict.RejectionReason
	}

	if err := s.store.Save(ctx, record); err != nil {
		return Result{}, err
	}
	metrics.EventsProcessedTotal.WithLabelValues(string(outcome)).Inc()

	if verdict.AllPassed {
		s.publisher.PublishApproved(ctx, event, snapshot)
		return Result{
			EventID:     event.EventID,
			Status:      StatusPublished,
			Message:     "Event approved and published",
			ProcessedAt: record.ProcessedAt,
		}, nil
	}

	rejected := Result{
		EventID:     event.EventID,
		Status:      StatusRejected,
		ProcessedAt: record.ProcessedAt,
	}
	if verdict.FailingVerdict != nil {
		rejected.Message = verdict.FailingVerdict.RejectionReason
		rejected.RejectionDetails = verdict.FailingVerdict.Details
	}
	return rejected, nil
}

func (s *Service) mapOutcome(verdict rules.PipelineVerdict) Outcome {
	if verdict.AllPassed {
		return OutcomePublished
	}
	if verdict.FailingVerdict == nil {
		return OutcomeRejectedNoData
	}
	switch verdict.FailingVerdict.RuleName {
	case "DUPLICATE_EVENT_CHECK":
		return OutcomeRejectedDuplicate
	case "ACTIVE_REQUEST_CHECK":
		return OutcomeRejectedActiveRequest
	case "WORKING_HOURS_CHECK":
		return OutcomeRejectedOutsideHours
	default:
		return OutcomeRejectedNoData
	}
}

// saveErrorRecord is best-effort: the write that failed in the main
// path may fail again here, and that only gets logged.
func (s *Service) saveErrorRecord(ctx context.Context, event *models.RequestEvent, errorMessage string) {
	record := &ProcessedRecord{
		EventID:         event.EventID,
		CustomerID:      event.CustomerID,
		Category:        event.Category,
		Outcome:         OutcomeRejectedNoData,
		RejectionReason: "Processing error: " + errorMessage,
		ProcessedAt:     time.Now(),
		ExpireAt:        TTLFor(s.recordTTL),
	}
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to save error record",
			"event_id", event.EventID,
			"error", err,
		)
		return
	}
	metrics.EventsProcessedTotal.WithLabelValues(string(OutcomeRejectedNoData)).Inc()
}

// Statistics aggregates stored outcomes.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	byOutcome, err := s.store.CountByOutcome(ctx)
	if err != nil {
		return nil, err
	}
	return &Statistics{
		TotalProcessed: total,
		ByOutcome:      byOutcome,
	}, nil
}

// Store exposes the result store for the read-side API handlers.
func (s *Service) Store() ResultStore {
	return s.store
}
