// Package activity records per-viewer session heartbeats and answers the
// two questions the scheduler needs: is anyone watching, and how stale is
// the cached data.
package activity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "activity:sessions:"

// DefaultHeartbeatTTL matches spec §4.7's default session heartbeat.
const DefaultHeartbeatTTL = 5 * time.Minute

// Tracker records session heartbeats in Redis with a fixed TTL.
type Tracker struct {
	client       *redis.Client
	heartbeatTTL time.Duration
}

// New builds a Tracker over an existing Redis client.
func New(client *redis.Client, heartbeatTTL time.Duration) *Tracker {
	if heartbeatTTL == 0 {
		heartbeatTTL = DefaultHeartbeatTTL
	}
	return &Tracker{client: client, heartbeatTTL: heartbeatTTL}
}

// SessionID derives a stable session id from (user_id, client_ip,
// user_agent) via sha256, so repeat requests from the same client coalesce
// onto the same heartbeat key, per spec §4.7.
func SessionID(userID, clientIP, userAgent string) string {
	h := sha256.Sum256([]byte(userID + "|" + clientIP + "|" + userAgent))
	return hex.EncodeToString(h[:16])
}

// RecordAccess writes the heartbeat key for a session, refreshing its TTL.
func (t *Tracker) RecordAccess(ctx context.Context, sessionID string, now time.Time) error {
	key := sessionKeyPrefix + sessionID
	if err := t.client.Set(ctx, key, now.Unix(), t.heartbeatTTL).Err(); err != nil {
		return fmt.Errorf("activity: record access: %w", err)
	}
	return nil
}

// HasActiveViewers reports whether at least one session heartbeat is
// currently unexpired. Redis TTL already evicts stale keys, so this is a
// simple existence scan over the session namespace.
func (t *Tracker) HasActiveViewers(ctx context.Context) (bool, error) {
	iter := t.client.Scan(ctx, 0, sessionKeyPrefix+"*", 1).Iterator()
	if iter.Next(ctx) {
		return true, nil
	}
	if err := iter.Err(); err != nil {
		return false, fmt.Errorf("activity: scan sessions: %w", err)
	}
	return false, nil
}

// TimeSinceLastRefresh reports now - lastRefreshAt, per spec §4.7. The
// refresh timestamp itself lives in internal/hotcache (it is one of the hot
// cache's three namespaces); callers pass it in rather than this package
// storing a second copy.
func TimeSinceLastRefresh(lastRefreshAt, now time.Time) time.Duration {
	if lastRefreshAt.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return now.Sub(lastRefreshAt)
}
