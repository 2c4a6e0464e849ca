package rules

import (
	"context"

	"modgate/pkg/models"
)

// Rule is a single moderation check. Apply inspects the event together
// with the enrichment snapshot and reports whether the event may pass.
// A returned error means the rule itself failed, not that the event was
// rejected.
type Rule interface {
	Name() string
	Priority() int
	Enabled() bool
	Apply(ctx context.Context, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot) (Verdict, error)
}

// Verdict is the outcome of one rule for one event.
type Verdict struct {
	RuleName        string `json:"ruleName"`
	Passed          bool   `json:"passed"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	Details         string `json:"details,omitempty"`
}

func pass(name string) Verdict {
	return Verdict{RuleName: name, Passed: true}
}

func reject(name, reason, details string) Verdict {
	return Verdict{
		RuleName:        name,
		Passed:          false,
		RejectionReason: reason,
		Details:         details,
	}
}

// PipelineVerdict aggregates the verdicts of an engine run. Verdicts
// holds one entry per evaluated rule in evaluation order; evaluation
// stops at the first failure.
type PipelineVerdict struct {
	EventID         string    `json:"eventId"`
	AllPassed       bool      `json:"allPassed"`
	Verdicts        []Verdict `json:"verdicts"`
	FailingVerdict  *Verdict  `json:"failingVerdict,omitempty"`
	RulesEvaluated  int       `json:"rulesEvaluated"`
	RulesRegistered int       `json:"rulesRegistered"`
}
