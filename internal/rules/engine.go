package rules

import (
	"context"
	"fmt"
	"sort"

	"modgate/internal/logger"
	"modgate/pkg/errors"
	"modgate/pkg/metrics"
	"modgate/pkg/models"
)

// Engine evaluates rules in ascending priority order, short-circuiting
// on the first rejection. A rule that errors or panics rejects the event
// rather than letting an unchecked event through.
type Engine struct {
	rules  []Rule
	logger logger.Logger
}

func NewEngine(log logger.Logger, rules ...Rule) *Engine {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &Engine{rules: sorted, logger: log}
}

func (e *Engine) Evaluate(ctx context.Context, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot) PipelineVerdict {
	result := PipelineVerdict{
		EventID:         event.EventID,
		AllPassed:       true,
		RulesRegistered: len(e.rules),
	}

	for _, rule := range e.rules {
		if !rule.Enabled() {
			continue
		}

		verdict := e.applyRule(ctx, rule, event, snapshot)
		result.Verdicts = append(result.Verdicts, verdict)
		result.RulesEvaluated++

		if verdict.Passed {
			metrics.RuleVerdictsTotal.WithLabelValues(rule.Name(), "passed").Inc()
			continue
		}

		metrics.RuleVerdictsTotal.WithLabelValues(rule.Name(), "rejected").Inc()
		result.AllPassed = false
		failing := verdict
		result.FailingVerdict = &failing
		e.logger.InfowCtx(ctx, "Event rejected by rule",
			"event_id", event.EventID,
			"rule", rule.Name(),
			"reason", verdict.RejectionReason,
			"details", verdict.Details,
		)
		break
	}

	return result
}

func (e *Engine) applyRule(ctx context.Context, rule Rule, event *models.RequestEvent, snapshot *models.EnrichmentSnapshot) Verdict {
	verdict, err := func() (v Verdict, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.RecoverPanic(r)
			}
		}()
		return rule.Apply(ctx, event, snapshot)
	}()

	if err != nil {
		e.logger.ErrorwCtx(ctx, "Rule evaluation failed",
			"event_id", event.EventID,
			"rule", rule.Name(),
			"error", err,
		)
		return reject(rule.Name(), "Rule error", err.Error())
	}

	return verdict
}

// RegisteredRules lists the configured rules in evaluation order,
// enabled or not.
func (e *Engine) RegisteredRules() []string {
	names := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		names = append(names, fmt.Sprintf("%s (priority: %d)", rule.Name(), rule.Priority()))
	}
	return names
}
