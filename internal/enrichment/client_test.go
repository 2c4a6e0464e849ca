package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/config"
	"modgate/internal/logger"
	"modgate/pkg/models"
)

func fastEnrichmentConfig(baseURL string) config.EnrichmentConfig {
	return config.EnrichmentConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 1 * time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2.0,
		},
	}
}

func TestFetchCustomerSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customer/cust-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"customerName": "Acme Corp",
			"customerEmail": "ops@acme.example",
			"customerLevel": "VIP",
			"openRequests": [
				{"requestId": "req-1", "category": "BILLING", "status": "OPEN"}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient(fastEnrichmentConfig(server.URL), nil, logger.NopLogger())

	snapshot := client.FetchCustomer(context.Background(), "cust-1")

	require.NotNil(t, snapshot)
	assert.True(t, snapshot.Available)
	assert.Equal(t, "cust-1", snapshot.CustomerID)
	assert.Equal(t, models.LevelVIP, snapshot.CustomerLevel)
	assert.Len(t, snapshot.OpenRequests, 1)
	assert.Equal(t, 1, snapshot.CountActiveInCategory("billing"))
}

func TestFetchCustomerRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"customerLevel": "REGULAR", "openRequests": []}`)
	}))
	defer server.Close()

	client := NewClient(fastEnrichmentConfig(server.URL), nil, logger.NopLogger())

	snapshot := client.FetchCustomer(context.Background(), "cust-2")

	require.NotNil(t, snapshot)
	assert.True(t, snapshot.Available)
	assert.Equal(t, 3, attempts)
}

func TestFetchCustomerExhaustedReturnsDegraded(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(fastEnrichmentConfig(server.URL), nil, logger.NopLogger())

	snapshot := client.FetchCustomer(context.Background(), "cust-3")

	require.NotNil(t, snapshot)
	assert.False(t, snapshot.Available)
	assert.Equal(t, "cust-3", snapshot.CustomerID)
	assert.Contains(t, snapshot.ErrorMessage, "500")
	assert.Equal(t, 3, attempts)
}

func TestFetchCustomerNotFoundIsDegraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(fastEnrichmentConfig(server.URL), nil, logger.NopLogger())

	snapshot := client.FetchCustomer(context.Background(), "unknown")

	require.NotNil(t, snapshot)
	assert.False(t, snapshot.Available)
	assert.Contains(t, snapshot.ErrorMessage, "404")
}

func TestFetchCustomerUnreachableHost(t *testing.T) {
	cfg := fastEnrichmentConfig("http://127.0.0.1:1")
	client := NewClient(cfg, nil, logger.NopLogger())

	snapshot := client.FetchCustomer(context.Background(), "cust-4")

	require.NotNil(t, snapshot)
	assert.False(t, snapshot.Available)
	assert.NotEmpty(t, snapshot.ErrorMessage)
}
