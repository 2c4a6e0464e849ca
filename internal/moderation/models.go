package moderation

import (
	"time"
)

// Outcome is the terminal decision stored for one event ID.
type Outcome string

const (
	OutcomePublished             Outcome = "PUBLISHED"
	OutcomeRejectedDuplicate     Outcome = "REJECTED_DUPLICATE"
	OutcomeRejectedActiveRequest Outcome = "REJECTED_ACTIVE_REQUEST"
	OutcomeRejectedOutsideHours  Outcome = "REJECTED_OUTSIDE_HOURS"
	OutcomeRejectedNoData        Outcome = "REJECTED_NO_DATA"
)

// ProcessedRecord is the persisted moderation decision. EventID is the
// document key, so one event can only ever have one record. ExpireAt
// drives the TTL index.
type ProcessedRecord struct {
	EventID         string    `bson:"_id" json:"eventId"`
	CustomerID      string    `bson:"customerId" json:"customerId"`
	Category        string    `bson:"category" json:"category"`
	Outcome         Outcome   `bson:"outcome" json:"outcome"`
	RejectionReason string    `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ProcessedAt     time.Time `bson:"processedAt" json:"processedAt"`
	ExpireAt        time.Time `bson:"expireAt" json:"expireAt"`
}

type ProcessingStatus string

const (
	StatusPublished ProcessingStatus = "PUBLISHED"
	StatusRejected  ProcessingStatus = "REJECTED"
	StatusError     ProcessingStatus = "ERROR"
)

// Result is the caller-facing summary of one pipeline run.
type Result struct {
	EventID          string           `json:"eventId"`
	Status           ProcessingStatus `json:"status"`
	Message          string           `json:"message"`
	RejectionDetails string           `json:"rejectionDetails,omitempty"`
	ProcessedAt      time.Time        `json:"processedAt"`
}

// Statistics aggregates stored outcomes for the operations endpoint.
type Statistics struct {
	TotalProcessed int64             `json:"totalProcessed"`
	ByOutcome      map[Outcome]int64 `json:"byOutcome"`
}
