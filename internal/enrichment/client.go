package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"modgate/internal/config"
	"modgate/internal/constants"
	"modgate/internal/logger"
	"modgate/pkg/circuitbreaker"
	"modgate/pkg/metrics"
	"modgate/pkg/models"
	"modgate/pkg/retry"
)

// Fetcher resolves a customer profile for the moderation pipeline.
type Fetcher interface {
	FetchCustomer(ctx context.Context, customerID string) *models.EnrichmentSnapshot
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	breaker    *circuitbreaker.Wrapper
	logger     logger.Logger
}

func NewClient(cfg config.EnrichmentConfig, breaker *circuitbreaker.Wrapper, log logger.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = constants.DefaultEnrichmentTimeout
	}

	policy := retry.DefaultPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = cfg.Retry.InitialInterval
	}
	if cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = cfg.Retry.MaxInterval
	}
	if cfg.Retry.Multiplier > 0 {
		policy.Multiplier = cfg.Retry.Multiplier
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy:  policy,
		breaker: breaker,
		logger:  log,
	}
}

// FetchCustomer resolves the customer profile with retries. It never
// returns an error: once retries are exhausted the caller gets a
// degraded snapshot carrying the last failure, and the pipeline moves
// on with whatever rules can still run.
func (c *Client) FetchCustomer(ctx context.Context, customerID string) *models.EnrichmentSnapshot {
	var snapshot *models.EnrichmentSnapshot

	err := retry.DoWithCallback(ctx, c.policy, func() error {
		s, err := c.fetchOnce(ctx, customerID)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.EnrichmentRetryAttemptsTotal.Inc()
		c.logger.WarnwCtx(ctx, "Retrying customer enrichment",
			"customer_id", customerID,
			"attempt", attempt,
			"max_attempts", c.policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
		)
	})

	if err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues("degraded").Inc()
		c.logger.ErrorwCtx(ctx, "Customer enrichment exhausted retries, continuing degraded",
			"customer_id", customerID,
			"error", err,
		)
		return models.DegradedSnapshot(customerID, err.Error())
	}

	metrics.EnrichmentRequestsTotal.WithLabelValues("success").Inc()
	return snapshot
}

func (c *Client) fetchOnce(ctx context.Context, customerID string) (*models.EnrichmentSnapshot, error) {
	start := time.Now()

	fetch := func() (interface{}, error) {
		return c.doRequest(ctx, customerID)
	}

	var result interface{}
	var err error
	if c.breaker != nil {
		result, err = c.breaker.Execute(ctx, fetch)
	} else {
		result, err = fetch()
	}

	if err != nil {
		metrics.ObserveEnrichmentAttempt(time.Since(start), "error")
		return nil, err
	}

	metrics.ObserveEnrichmentAttempt(time.Since(start), "success")
	return result.(*models.EnrichmentSnapshot), nil
}

func (c *Client) doRequest(ctx context.Context, customerID string) (*models.EnrichmentSnapshot, error) {
	url := fmt.Sprintf("%s/customer/%s", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return nil, fmt.Errorf("enrichment service returned status: %d", resp.StatusCode)
	}

	var snapshot models.EnrichmentSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode enrichment response: %w", err)
	}

	snapshot.CustomerID = customerID
	snapshot.Available = true
	return &snapshot, nil
}
