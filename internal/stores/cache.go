package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps computed rating aggregates in redis so the store detail
// endpoint does not hit the ratings table on every request.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache constructs a cache with the given entry TTL.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(storeID int64) string {
	return fmt.Sprintf("stores:summary:%d", storeID)
}

// Get returns the cached summary, or ok=false on a miss.
func (c *SummaryCache) Get(ctx context.Context, storeID int64) (Summary, bool) {
	if c == nil || c.client == nil {
		return Summary{}, false
	}
	data, err := c.client.Get(ctx, summaryKey(storeID)).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

// Set stores a summary for the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, summary Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(summary.StoreID), data, c.ttl).Err()
}

// Invalidate drops the cached summary after a rating mutation.
func (c *SummaryCache) Invalidate(ctx context.Context, storeID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Del(ctx, summaryKey(storeID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
