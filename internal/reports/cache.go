package reports

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache is a read-through Redis cache for summary results. The sales
// summary is the most requested report and the underlying aggregation scans
// the full window on every call.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached result for a key, or (zero, false) on a miss. Cache
// transport errors degrade to a miss rather than failing the report.
func (c *SummaryCache) Get(ctx context.Context, key string) (SummaryResult, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return SummaryResult{}, false
	}
	var result SummaryResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return SummaryResult{}, false
	}
	return result, true
}

func (c *SummaryCache) Set(ctx context.Context, key string, result SummaryResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	err = c.client.Set(ctx, key, payload, c.ttl).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
