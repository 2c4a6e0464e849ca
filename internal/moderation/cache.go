package moderation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"modgate/internal/constants"
	"modgate/internal/logger"
)

// CachedResultStore decorates a ResultStore with a Redis marker cache
// for Exists lookups. MongoDB stays the authority: a cache hit
// short-circuits, but a miss or any Redis failure falls through to the
// store, and markers are written best-effort after each Save.
type CachedResultStore struct {
	ResultStore
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedResultStore(store ResultStore, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedResultStore {
	if ttl <= 0 {
		ttl = constants.DefaultRecordTTL
	}
	return &CachedResultStore{
		ResultStore: store,
		client:      client,
		ttl:         ttl,
		logger:      log,
	}
}

func markerKey(eventID string) string {
	return constants.CacheKeyPrefixProcessed + eventID
}

func (c *CachedResultStore) Exists(ctx context.Context, eventID string) (bool, error) {
	hit, err := c.client.Exists(ctx, markerKey(eventID)).Result()
	if err == nil && hit > 0 {
		return true, nil
	}
	if err != nil {
		c.logger.WarnwCtx(ctx, "Marker cache lookup failed, falling back to store",
			"event_id", eventID,
			"error", err,
		)
	}
	return c.ResultStore.Exists(ctx, eventID)
}

func (c *CachedResultStore) Save(ctx context.Context, record *ProcessedRecord) error {
	if err := c.ResultStore.Save(ctx, record); err != nil {
		return err
	}

	if err := c.client.Set(ctx, markerKey(record.EventID), string(record.Outcome), c.ttl).Err(); err != nil {
		c.logger.WarnwCtx(ctx, "Failed to write marker cache entry",
			"event_id", record.EventID,
			"error", err,
		)
	}
	return nil
}

func (c *CachedResultStore) DeleteByID(ctx context.Context, eventID string) (bool, error) {
	deleted, err := c.ResultStore.DeleteByID(ctx, eventID)
	if err != nil {
		return deleted, err
	}

	if err := c.client.Del(ctx, markerKey(eventID)).Err(); err != nil {
		c.logger.WarnwCtx(ctx, "Failed to drop marker cache entry",
			"event_id", eventID,
			"error", err,
		)
	}
	return deleted, nil
}

func (c *CachedResultStore) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := c.ResultStore.DeleteAll(ctx)
	if err != nil {
		return deleted, err
	}

	iter := c.client.Scan(ctx, 0, constants.CacheKeyPrefixProcessed+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WarnwCtx(ctx, "Failed to drop marker cache entry",
				"key", iter.Val(),
				"error", err,
			)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnwCtx(ctx, "Marker cache scan failed during purge",
			"error", err,
		)
	}
	return deleted, nil
}
