package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MarketKind is the closed set of betting-market variants this system
// understands. Parameter and Player are present or absent depending on
// the kind (see NeedsParameter/NeedsPlayer).
type MarketKind string

const (
	MarketMoneyline  MarketKind = "moneyline"
	MarketSpread     MarketKind = "spread"
	MarketTotal      MarketKind = "total"
	MarketPlayerProp MarketKind = "player_prop"
)

// MainLines is the closed set referenced throughout spec.md as "main lines".
var MainLines = map[MarketKind]bool{
	MarketMoneyline: true,
	MarketSpread:    true,
	MarketTotal:     true,
}

func (k MarketKind) IsMainLine() bool {
	return MainLines[k]
}

// NeedsParameter reports whether this market kind carries a numeric line/total.
func (k MarketKind) NeedsParameter() bool {
	return k == MarketSpread || k == MarketTotal
}

// NeedsPlayer reports whether this market kind carries a player name.
func (k MarketKind) NeedsPlayer() bool {
	return k == MarketPlayerProp
}

// Event is a contest: two participants, a start time, and sport/league tags.
type Event struct {
	ID          string
	SportKey    string
	LeagueKey   string
	CommenceUTC int64 // unix seconds, UTC
	Home        string
	Away        string
}

// DisplayName renders "Away @ Home", the convention used across the teacher's
// handlers (api-gateway/internal/handlers/opportunities.go's getEventNames).
func (e Event) DisplayName() string {
	return fmt.Sprintf("%s @ %s", e.Away, e.Home)
}

// Sha computes the stable event hash used as part of the Bet dedup tuple:
// hash(event_name, event_time_unix, sport).
func (e Event) Sha() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", e.DisplayName(), e.CommenceUTC, e.SportKey)))
	return hex.EncodeToString(h[:])
}

// Market is one priced question on one event: a moneyline, a spread at a
// given line, a total, or a named player prop. OutcomeKeys enumerates the
// outcome set (e.g. {"home","away"}, {"over","under"}, {"home","draw","away"}).
type Market struct {
	EventID      string
	Kind         MarketKind
	OutcomeKeys  []string
	Parameter    *float64 // line/total, present iff Kind.NeedsParameter()
	Player       *string  // present iff Kind.NeedsPlayer()
}

// BetKey is the tuple that uniquely identifies a Bet across time:
// (event_sha, market_kind, outcome_key, parameter, player). One Bet exists
// per outcome of a market, not per market.
type BetKey struct {
	EventSha   string
	MarketKind MarketKind
	OutcomeKey string
	Parameter  *float64
	Player     *string
}

// String renders a stable, comparable representation of the key. It is
// used as the Opportunity id (internal/assembler) and parsed back into a
// BetKey by internal/persistence.
func (k BetKey) String() string {
	param := "-"
	if k.Parameter != nil {
		param = fmt.Sprintf("%.2f", *k.Parameter)
	}
	player := "-"
	if k.Player != nil {
		player = *k.Player
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", k.EventSha, k.MarketKind, k.OutcomeKey, param, player)
}

// MarketKeyString identifies a market (ignoring outcome): the priced
// question shared by all of its outcomes.
func MarketKeyString(eventSha string, kind MarketKind, parameter *float64, player *string) string {
	param := "-"
	if parameter != nil {
		param = fmt.Sprintf("%.2f", *parameter)
	}
	pl := "-"
	if player != nil {
		pl = *player
	}
	return fmt.Sprintf("%s|%s|%s|%s", eventSha, kind, param, pl)
}

// BetKeyFor builds the BetKey for one outcome of this market, given its
// owning event.
func (m Market) BetKeyFor(event Event, outcomeKey string) BetKey {
	return BetKey{
		EventSha:   event.Sha(),
		MarketKind: m.Kind,
		OutcomeKey: outcomeKey,
		Parameter:  m.Parameter,
		Player:     m.Player,
	}
}

// GroupKey identifies this market's priced question, ignoring outcome.
// internal/assembler uses it to name a market in skip and error messages.
func (m Market) GroupKey(event Event) string {
	return MarketKeyString(event.Sha(), m.Kind, m.Parameter, m.Player)
}
