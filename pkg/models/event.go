package models

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// RequestEvent is one customer-submitted request awaiting moderation.
// EventID is the idempotency key; the intake layer assigns one when the
// producer omitted it, and it is immutable afterwards.
type RequestEvent struct {
	EventID     string    `json:"eventId"`
	CustomerID  string    `json:"customerId"`
	RequestID   string    `json:"requestId"`
	Category    string    `json:"category"`
	Subject     string    `json:"subject"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	Timestamp   time.Time `json:"timestamp"`
}

// Validate reports the first missing mandatory field. EventID and Timestamp
// are not checked here: the intake layer fills them in when absent.
func (e *RequestEvent) Validate() error {
	switch {
	case e.CustomerID == "":
		return fmt.Errorf("customerId is required")
	case e.RequestID == "":
		return fmt.Errorf("requestId is required")
	case e.Category == "":
		return fmt.Errorf("category is required")
	case e.Subject == "":
		return fmt.Errorf("subject is required")
	case e.Priority == "":
		return fmt.Errorf("priority is required")
	case !e.Priority.Valid():
		return fmt.Errorf("priority %q is not one of LOW, MEDIUM, HIGH, CRITICAL", e.Priority)
	}
	return nil
}

type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "APPROVED"
)

// ApprovedResultEvent is published to the outbound topic when the pipeline
// approves an event. It carries the enrichment snapshot that the decision
// was made against.
type ApprovedResultEvent struct {
	OriginalEventID    string              `json:"originalEventId"`
	RequestID          string              `json:"requestId"`
	CustomerID         string              `json:"customerId"`
	Category           string              `json:"category"`
	Subject            string              `json:"subject"`
	Priority           Priority            `json:"priority"`
	Status             ApprovalStatus      `json:"status"`
	EnrichmentSnapshot *EnrichmentSnapshot `json:"enrichmentSnapshot"`
	ProcessedAt        time.Time           `json:"processedAt"`
}
