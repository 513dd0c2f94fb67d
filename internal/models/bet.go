package models

import "time"

// Bet is the persistent identity anchor for one market outcome across time.
// Exactly one row exists per distinct BetKey tuple; event start time may
// drift between cycles (postponements, schedule corrections) and is
// corrected in place rather than spawning a new Bet.
type Bet struct {
	ID          string
	Key         BetKey
	EventName   string
	EventTimeUTC int64
	SportKey    string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// NeedsTimeCorrection reports whether the event time carried by a freshly
// observed market has drifted from the time already recorded for this bet.
func (b Bet) NeedsTimeCorrection(observedEventTimeUTC int64) bool {
	return b.EventTimeUTC != observedEventTimeUTC
}
