package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/config"
	"modgate/internal/enrichment"
	"modgate/internal/moderation"
	"modgate/internal/rules"
	"modgate/pkg/models"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *capturingPublisher) PublishApproved(_ context.Context, event *models.RequestEvent, _ *models.EnrichmentSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventID)
}

func newPipeline(t *testing.T, infra *TestInfra, enrichmentURL string) (*moderation.Service, *capturingPublisher) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, moderation.EnsureIndexes(ctx, infra.MongoDB))

	var store moderation.ResultStore = moderation.NewResultStore(infra.MongoDB)
	if infra.RedisClient != nil {
		store = moderation.NewCachedResultStore(store, infra.RedisClient, 0, createTestLogger())
	}

	enrichmentCfg := config.EnrichmentConfig{
		BaseURL:        enrichmentURL,
		TimeoutSeconds: 2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 1 * time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2.0,
		},
	}
	fetcher := enrichment.NewClient(enrichmentCfg, nil, createTestLogger())

	rulesCfg := createTestRulesConfig()
	workingHours, err := rules.NewWorkingHoursRule(rulesCfg)
	require.NoError(t, err)
	engine := rules.NewEngine(createTestLogger(),
		rules.NewDuplicateEventRule(store),
		rules.NewActiveRequestRule(rulesCfg),
		workingHours,
	)

	publisher := &capturingPublisher{}
	svc := moderation.NewService(fetcher, engine, store, publisher, 30*24*time.Hour, createTestLogger())
	return svc, publisher
}

func enrichmentStub(openRequests string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"customerLevel": "REGULAR", "openRequests": %s}`, openRequests)
	}))
}

func TestPipelineApprovesAndStoresOutcome(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t)
	stub := enrichmentStub("[]")
	defer stub.Close()

	svc, publisher := newPipeline(t, infra, stub.URL)
	ctx := context.Background()

	result := svc.ProcessEvent(ctx, createTestEvent("evt-p1", "cust-1", "TECHNICAL"))

	assert.Equal(t, moderation.StatusPublished, result.Status)
	assert.Equal(t, "Event approved and published", result.Message)
	assert.Equal(t, []string{"evt-p1"}, publisher.events)

	store := moderation.NewResultStore(infra.MongoDB)
	record, err := store.FindByID(ctx, "evt-p1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, moderation.OutcomePublished, record.Outcome)
}

func TestPipelineRejectsRedelivery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfra(t)
	stub := enrichmentStub("[]")
	defer stub.Close()

	svc, publisher := newPipeline(t, infra, stub.URL)
	ctx := context.Background()

	first := svc.ProcessEvent(ctx, createTestEvent("evt-p2", "cust-1", "TECHNICAL"))
	require.Equal(t, moderation.StatusPublished, first.Status)

	second := svc.ProcessEvent(ctx, createTestEvent("evt-p2", "cust-1", "TECHNICAL"))

	assert.Equal(t, moderation.StatusRejected, second.Status)
	assert.Equal(t, "Event already processed", second.Message)
	assert.Len(t, publisher.events, 1)
}

func TestPipelineRejectsOnActiveRequest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfraWithOptions(t, true, false)
	stub := enrichmentStub(`[{"requestId": "r1", "category": "TECHNICAL", "status": "IN_PROGRESS"}]`)
	defer stub.Close()

	svc, publisher := newPipeline(t, infra, stub.URL)

	result := svc.ProcessEvent(context.Background(), createTestEvent("evt-p3", "cust-1", "TECHNICAL"))

	assert.Equal(t, moderation.StatusRejected, result.Status)
	assert.Equal(t, "Active request already exists in this category", result.Message)
	assert.Empty(t, publisher.events)
}

func TestPipelineDegradedEnrichmentStillApproves(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	infra := SetupTestInfraWithOptions(t, true, false)
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer stub.Close()

	svc, publisher := newPipeline(t, infra, stub.URL)

	result := svc.ProcessEvent(context.Background(), createTestEvent("evt-p4", "cust-1", "TECHNICAL"))

	assert.Equal(t, moderation.StatusPublished, result.Status)
	assert.Equal(t, []string{"evt-p4"}, publisher.events)
}
