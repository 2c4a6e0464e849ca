package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/config"
	"modgate/internal/logger"
	"modgate/internal/rules"
	"modgate/pkg/models"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*ProcessedRecord
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*ProcessedRecord)}
}

func (m *memoryStore) Exists(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[eventID]
	return ok, nil
}

func (m *memoryStore) Save(_ context.Context, record *ProcessedRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.EventID] = record
	return nil
}

func (m *memoryStore) FindByID(_ context.Context, eventID string) (*ProcessedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[eventID], nil
}

func (m *memoryStore) ListAll(_ context.Context, _ int64) ([]ProcessedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProcessedRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memoryStore) DeleteByID(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[eventID]
	delete(m.records, eventID)
	return ok, nil
}

func (m *memoryStore) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.records))
	m.records = make(map[string]*ProcessedRecord)
	return n, nil
}

func (m *memoryStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *memoryStore) CountByOutcome(_ context.Context) (map[Outcome]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[Outcome]int64)
	for _, r := range m.records {
		counts[r.Outcome]++
	}
	return counts, nil
}

type fakeFetcher struct {
	snapshot *models.EnrichmentSnapshot
}

func (f *fakeFetcher) FetchCustomer(_ context.Context, customerID string) *models.EnrichmentSnapshot {
	if f.snapshot != nil {
		return f.snapshot
	}
	return &models.EnrichmentSnapshot{CustomerID: customerID, Available: true}
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *recordingPublisher) PublishApproved(_ context.Context, event *models.RequestEvent, _ *models.EnrichmentSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event.EventID)
}

func fullRulesConfig() config.RulesConfig {
	return config.RulesConfig{
		WorkingHoursCheckEnabled:     true,
		WorkingHoursCategories:       []string{"TECHNICAL"},
		WorkingHoursStart:            "09:00",
		WorkingHoursEnd:              "18:00",
		ActiveRequestsCheckEnabled:   true,
		MaxActiveRequestsPerCategory: 1,
	}
}

func newTestService(t *testing.T, store ResultStore, fetcher *fakeFetcher, publisher *recordingPublisher) *Service {
	t.Helper()
	cfg := fullRulesConfig()
	workingHours, err := rules.NewWorkingHoursRule(cfg)
	require.NoError(t, err)
	engine := rules.NewEngine(logger.NopLogger(),
		rules.NewDuplicateEventRule(store),
		rules.NewActiveRequestRule(cfg),
		workingHours,
	)
	return NewService(fetcher, engine, store, publisher, 30*24*time.Hour, logger.NopLogger())
}

// 2026-08-26 is a Wednesday.
func workdayEvent(id string) *models.RequestEvent {
	return &models.RequestEvent{
		EventID:    id,
		CustomerID: "cust-1",
		RequestID:  "req-1",
		Category:   "TECHNICAL",
		Subject:    "vpn is down",
		Priority:   models.PriorityHigh,
		Timestamp:  time.Date(2026, 8, 26, 11, 0, 0, 0, time.UTC),
	}
}

func TestProcessEventApprovedAndPublished(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	svc := newTestService(t, store, &fakeFetcher{}, publisher)

	result := svc.ProcessEvent(context.Background(), workdayEvent("evt-1"))

	assert.Equal(t, StatusPublished, result.Status)
	assert.Equal(t, "Event approved and published", result.Message)
	assert.Equal(t, []string{"evt-1"}, publisher.published)

	record, err := store.FindByID(context.Background(), "evt-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, OutcomePublished, record.Outcome)
	assert.Empty(t, record.RejectionReason)
	assert.True(t, record.ExpireAt.After(record.ProcessedAt))
}

func TestProcessEventDuplicateRejected(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	svc := newTestService(t, store, &fakeFetcher{}, publisher)

	first := svc.ProcessEvent(context.Background(), workdayEvent("evt-dup"))
	require.Equal(t, StatusPublished, first.Status)

	second := svc.ProcessEvent(context.Background(), workdayEvent("evt-dup"))

	assert.Equal(t, StatusRejected, second.Status)
	assert.Equal(t, "Event already processed", second.Message)
	assert.Len(t, publisher.published, 1)

	// The stored record reflects the latest decision for the event ID.
	record, err := store.FindByID(context.Background(), "evt-dup")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejectedDuplicate, record.Outcome)
}

func TestProcessEventActiveRequestRejected(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	fetcher := &fakeFetcher{snapshot: &models.EnrichmentSnapshot{
		CustomerID: "cust-1",
		Available:  true,
		OpenRequests: []models.OpenRequest{
			{RequestID: "r1", Category: "TECHNICAL", Status: models.RequestOpen},
		},
	}}
	svc := newTestService(t, store, fetcher, publisher)

	result := svc.ProcessEvent(context.Background(), workdayEvent("evt-2"))

	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, "Active request already exists in this category", result.Message)
	assert.Equal(t, "Found 1 active request(s)", result.RejectionDetails)
	assert.Empty(t, publisher.published)

	record, _ := store.FindByID(context.Background(), "evt-2")
	require.NotNil(t, record)
	assert.Equal(t, OutcomeRejectedActiveRequest, record.Outcome)
}

func TestProcessEventOutsideWorkingHoursRejected(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	svc := newTestService(t, store, &fakeFetcher{}, publisher)

	event := workdayEvent("evt-3")
	event.Timestamp = time.Date(2026, 8, 26, 22, 30, 0, 0, time.UTC)

	result := svc.ProcessEvent(context.Background(), event)

	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, "Request received outside working hours", result.Message)
	assert.Contains(t, result.RejectionDetails, "Working hours: 09:00-18:00")
	assert.Empty(t, publisher.published)

	record, _ := store.FindByID(context.Background(), "evt-3")
	require.NotNil(t, record)
	assert.Equal(t, OutcomeRejectedOutsideHours, record.Outcome)
}

func TestProcessEventDegradedEnrichmentStillPublishes(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	fetcher := &fakeFetcher{snapshot: models.DegradedSnapshot("cust-1", "connection refused")}
	svc := newTestService(t, store, fetcher, publisher)

	result := svc.ProcessEvent(context.Background(), workdayEvent("evt-4"))

	assert.Equal(t, StatusPublished, result.Status)
	assert.Equal(t, []string{"evt-4"}, publisher.published)
}

func TestProcessEventSaveFailureReturnsError(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("mongo down")
	publisher := &recordingPublisher{}
	svc := newTestService(t, store, &fakeFetcher{}, publisher)

	result := svc.ProcessEvent(context.Background(), workdayEvent("evt-5"))

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "Processing error: mongo down")
	assert.Empty(t, publisher.published)
}

func TestStatistics(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	svc := newTestService(t, store, &fakeFetcher{}, publisher)

	svc.ProcessEvent(context.Background(), workdayEvent("evt-a"))
	svc.ProcessEvent(context.Background(), workdayEvent("evt-a")) // duplicate

	offHours := workdayEvent("evt-b")
	offHours.Timestamp = time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC) // Saturday
	svc.ProcessEvent(context.Background(), offHours)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProcessed)
	assert.Equal(t, int64(1), stats.ByOutcome[OutcomeRejectedDuplicate])
	assert.Equal(t, int64(1), stats.ByOutcome[OutcomeRejectedOutsideHours])
}
