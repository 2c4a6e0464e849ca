package models

import (
	"strings"
	"time"
)

type CustomerLevel string

const (
	LevelNew     CustomerLevel = "NEW"
	LevelRegular CustomerLevel = "REGULAR"
	LevelVIP     CustomerLevel = "VIP"
	LevelPremium CustomerLevel = "PREMIUM"
)

type RequestStatus string

const (
	RequestOpen       RequestStatus = "OPEN"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestPending    RequestStatus = "PENDING"
	RequestResolved   RequestStatus = "RESOLVED"
	RequestClosed     RequestStatus = "CLOSED"
)

// Active reports whether the request still occupies the customer's
// per-category slot.
func (s RequestStatus) Active() bool {
	switch s {
	case RequestOpen, RequestInProgress, RequestPending:
		return true
	}
	return false
}

type OpenRequest struct {
	RequestID string        `json:"requestId"`
	Category  string        `json:"category"`
	Subject   string        `json:"subject"`
	CreatedAt time.Time     `json:"createdAt"`
	Status    RequestStatus `json:"status"`
}

// EnrichmentSnapshot is the point-in-time customer profile fetched from the
// enrichment service. Available=false is an expected degraded state after
// retry exhaustion, not an error: identity fields are empty except
// CustomerID and ErrorMessage holds the last failure.
type EnrichmentSnapshot struct {
	CustomerID    string        `json:"customerId"`
	CustomerName  string        `json:"customerName,omitempty"`
	CustomerEmail string        `json:"customerEmail,omitempty"`
	CustomerLevel CustomerLevel `json:"customerLevel,omitempty"`
	OpenRequests  []OpenRequest `json:"openRequests,omitempty"`
	Available     bool          `json:"available"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
}

// DegradedSnapshot builds the fallback snapshot returned when the
// enrichment service could not be reached.
func DegradedSnapshot(customerID, errorMessage string) *EnrichmentSnapshot {
	return &EnrichmentSnapshot{
		CustomerID:   customerID,
		Available:    false,
		ErrorMessage: errorMessage,
	}
}

// CountActiveInCategory counts open requests whose category matches
// case-insensitively and whose status is OPEN, IN_PROGRESS or PENDING.
func (s *EnrichmentSnapshot) CountActiveInCategory(category string) int {
	count := 0
	for _, req := range s.OpenRequests {
		if strings.EqualFold(req.Category, category) && req.Status.Active() {
			count++
		}
	}
	return count
}
