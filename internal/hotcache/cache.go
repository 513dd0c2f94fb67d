// Package hotcache is the Redis-backed read model: the ranked opportunity
// list per tier, the refresh timestamp scalar, and (via internal/activity)
// the session heartbeat keys. Writes from the pipeline replace every tier
// key atomically so readers never observe a mix of cycles.
package hotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// Tier keys mirror internal/entitlement's role names; the cache itself is
// agnostic to what a tier means, it just stores one opportunity list per
// key.
const (
	keyPrefix      = "opportunities:"
	lastRefreshKey = "refresh:last_ts"
	cacheTTL       = 24 * time.Hour
)

// Cache wraps a redis.Client with the opportunity-cache read/write surface.
type Cache struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func tierKey(tier string) string {
	return keyPrefix + tier
}

// SwapTiers atomically replaces every tier's opportunity list and the
// refresh timestamp in one pipeline, per spec §4.5: "all tier keys are
// replaced in a single logical update so readers never observe a mix of
// cycles."
func (c *Cache) SwapTiers(ctx context.Context, byTier map[string][]models.Opportunity, refreshedAt time.Time) error {
	pipe := c.client.TxPipeline()

	for tier, opportunities := range byTier {
		data, err := json.Marshal(opportunities)
		if err != nil {
			return fmt.Errorf("hotcache: marshaling tier %q: %w", tier, err)
		}
		pipe.Set(ctx, tierKey(tier), data, cacheTTL)
	}
	pipe.Set(ctx, lastRefreshKey, refreshedAt.Unix(), 0)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("hotcache: swap: %w", err)
	}
	return nil
}

// GetTier returns the cached opportunity list for one tier. A redis.Nil
// miss is surfaced as an empty slice with ok=false so callers can
// distinguish "never populated" from "empty by design".
func (c *Cache) GetTier(ctx context.Context, tier string) ([]models.Opportunity, bool, error) {
	data, err := c.client.Get(ctx, tierKey(tier)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("hotcache: get tier %q: %w", tier, err)
	}

	var opportunities []models.Opportunity
	if err := json.Unmarshal(data, &opportunities); err != nil {
		return nil, false, fmt.Errorf("hotcache: unmarshaling tier %q: %w", tier, err)
	}
	return opportunities, true, nil
}

// LastRefreshAt returns the timestamp of the most recent successful cache
// swap, or the zero time if none has happened yet.
func (c *Cache) LastRefreshAt(ctx context.Context) (time.Time, error) {
	unixSecs, err := c.client.Get(ctx, lastRefreshKey).Int64()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("hotcache: last refresh: %w", err)
	}
	return time.Unix(unixSecs, 0).UTC(), nil
}

// Ping verifies connectivity, used by the /health endpoint.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
