package models_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fairedge/internal/models"
)

func TestEventDisplayName(t *testing.T) {
	event := models.Event{Home: "Lakers", Away: "Celtics"}
	if got, want := event.DisplayName(), "Celtics @ Lakers"; got != want {
		t.Errorf("DisplayName() = %q, want %q", got, want)
	}
}

func TestEventShaStableAndDistinguishing(t *testing.T) {
	a := models.Event{Home: "Lakers", Away: "Celtics", CommenceUTC: 1000, SportKey: "basketball_nba"}
	b := models.Event{Home: "Lakers", Away: "Celtics", CommenceUTC: 1000, SportKey: "basketball_nba"}
	c := models.Event{Home: "Lakers", Away: "Celtics", CommenceUTC: 2000, SportKey: "basketball_nba"}

	if a.Sha() != b.Sha() {
		t.Error("identical events should hash identically")
	}
	if a.Sha() == c.Sha() {
		t.Error("events differing only by commence time should hash differently")
	}
}

func TestBetKeyStringWithParameter(t *testing.T) {
	param := 2.5
	key := models.BetKey{
		EventSha:   "abc123",
		MarketKind: models.MarketSpread,
		OutcomeKey: "home",
		Parameter:  &param,
	}

	str := key.String()
	if str != "abc123|spread|home|2.50|-" {
		t.Errorf("String() = %q, want %q", str, "abc123|spread|home|2.50|-")
	}
}

func TestBetKeyStringWithNoParameterOrPlayer(t *testing.T) {
	key := models.BetKey{EventSha: "abc123", MarketKind: models.MarketMoneyline, OutcomeKey: "home"}
	if got, want := key.String(), "abc123|moneyline|home|-|-"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMarketGroupKeySharedAcrossOutcomes(t *testing.T) {
	event := models.Event{Home: "Lakers", Away: "Celtics", SportKey: "basketball_nba"}
	market := models.Market{Kind: models.MarketMoneyline, OutcomeKeys: []string{"home", "away"}}

	homeKey := market.BetKeyFor(event, "home")
	awayKey := market.BetKeyFor(event, "away")

	if homeKey.EventSha != awayKey.EventSha || homeKey.MarketKind != awayKey.MarketKind {
		t.Error("outcomes of the same market should share event sha and market kind")
	}
	if homeKey.OutcomeKey == awayKey.OutcomeKey {
		t.Error("outcomes of the same market should have distinct outcome keys")
	}
	if market.GroupKey(event) == "" {
		t.Error("GroupKey should not be empty")
	}
}

func TestMarketKindClassification(t *testing.T) {
	if !models.MarketMoneyline.IsMainLine() {
		t.Error("moneyline should be a main line")
	}
	if models.MarketPlayerProp.IsMainLine() {
		t.Error("player_prop should not be a main line")
	}
	if !models.MarketSpread.NeedsParameter() || !models.MarketTotal.NeedsParameter() {
		t.Error("spread and total should need a parameter")
	}
	if models.MarketMoneyline.NeedsParameter() {
		t.Error("moneyline should not need a parameter")
	}
	if !models.MarketPlayerProp.NeedsPlayer() {
		t.Error("player_prop should need a player")
	}
}

func TestBetNeedsTimeCorrection(t *testing.T) {
	bet := models.Bet{EventTimeUTC: 1000}
	if bet.NeedsTimeCorrection(1000) {
		t.Error("unchanged event time should not need correction")
	}
	if !bet.NeedsTimeCorrection(1500) {
		t.Error("changed event time should need correction")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Unix(10000, 0)
	fresh := models.Session{LastSeen: now.Add(-1 * time.Minute)}
	stale := models.Session{LastSeen: now.Add(-10 * time.Minute)}

	if fresh.Expired(now, models.DefaultSessionTTL) {
		t.Error("session within TTL should not be expired")
	}
	if !stale.Expired(now, models.DefaultSessionTTL) {
		t.Error("session past TTL should be expired")
	}
}

func TestRefreshStateStaleFor(t *testing.T) {
	zero := models.RefreshState{}
	if zero.StaleFor(time.Now()) < time.Hour {
		t.Error("a never-succeeded refresh state should report as very stale")
	}

	now := time.Unix(100000, 0)
	recent := models.RefreshState{LastSuccessAt: now.Add(-5 * time.Minute)}
	if recent.StaleFor(now) != 5*time.Minute {
		t.Errorf("StaleFor() = %v, want 5m", recent.StaleFor(now))
	}
}
