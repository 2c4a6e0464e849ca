package rules

import (
	"context"
	"fmt"

	"modgate/internal/config"
	"modgate/pkg/models"
)

// ActiveRequestRule rejects an event when the customer already has the
// maximum number of active requests in the event's category. A degraded
// enrichment snapshot passes the rule: the check tolerates missing data
// rather than blocking intake.
type ActiveRequestRule struct {
	cfg config.RulesConfig
}

func NewActiveRequestRule(cfg config.RulesConfig) *ActiveRequestRule {
	return &ActiveRequestRule{cfg: cfg}
}

func (r *ActiveRequestRule) Name() string  { return "ACTIVE_REQUEST_CHECK" }
func (r *ActiveRequestRule) Priority() int { return 2 }
func (r *ActiveRequestRule) Enabled() bool { return r.cfg.ActiveRequestsCheckEnabled }

func (r *ActiveRequestRule) Apply(_ context.Context, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot) (Verdict, error) {
	if !r.cfg.ActiveRequestsCheckEnabled {
		return pass(r.Name()), nil
	}
	if snapshot == nil || !snapshot.Available {
		return pass(r.Name()), nil
	}

	for _, allowed := range r.cfg.AllowMultipleActiveCategories {
		if allowed == event.Category {
			return pass(r.Name()), nil
		}
	}

	count := snapshot.CountActiveInCategory(event.Category)
	maxActive := r.cfg.MaxActiveRequestsPerCategory
	if maxActive <= 0 {
		maxActive = 1
	}

	if count >= maxActive {
		return reject(r.Name(), "Active request already exists in this category",
			fmt.Sprintf("Found %d active request(s)", count)), nil
	}

	return pass(r.Name()), nil
}
