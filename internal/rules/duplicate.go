package rules

import (
	"context"

	"modgate/pkg/models"
)

// ExistenceChecker answers whether an event ID has already been decided.
// The moderation result store satisfies it.
type ExistenceChecker interface {
	Exists(ctx context.Context, eventID string) (bool, error)
}

// DuplicateEventRule rejects events whose ID already has a recorded
// outcome, making reprocessing of redelivered messages a no-op.
type DuplicateEventRule struct {
	checker ExistenceChecker
}

func NewDuplicateEventRule(checker ExistenceChecker) *DuplicateEventRule {
	return &DuplicateEventRule{checker: checker}
}

func (r *DuplicateEventRule) Name() string  { return "DUPLICATE_EVENT_CHECK" }
func (r *DuplicateEventRule) Priority() int { return 1 }
func (r *DuplicateEventRule) Enabled() bool { return true }

func (r *DuplicateEventRule) Apply(ctx context.Context, event *models.RequestEvent, _ *models.EnrichmentSnapshot) (Verdict, error) {
	exists, err := r.checker.Exists(ctx, event.EventID)
	if err != nil {
		return Verdict{}, err
	}
	if exists {
		return reject(r.Name(), "Event already processed", ""), nil
	}
	return pass(r.Name()), nil
}
