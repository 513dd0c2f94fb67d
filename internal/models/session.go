package models

import "time"

// DefaultSessionTTL is the heartbeat window after which a viewer session is
// considered gone, per spec §4.8's activity-gated refresh policy.
const DefaultSessionTTL = 5 * time.Minute

// Session is a transient marker of one active viewer, keyed by an opaque
// session id and refreshed on every read-path request.
type Session struct {
	ID       string
	LastSeen time.Time
}

// Expired reports whether this session's heartbeat has aged out of the TTL
// as of now.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen) > ttl
}
