package persistence

import (
	"testing"

	"github.com/XavierBriggs/fairedge/internal/models"
)

func TestParseOpportunityKeyRoundTripsThroughBetKeyString(t *testing.T) {
	line := 2.5
	player := "LeBron James"
	original := models.BetKey{
		EventSha:   "abc123",
		MarketKind: models.MarketPlayerProp,
		OutcomeKey: "over",
		Parameter:  &line,
		Player:     &player,
	}

	got := parseOpportunityKey(original.String())

	if got.EventSha != original.EventSha {
		t.Errorf("EventSha = %q, want %q", got.EventSha, original.EventSha)
	}
	if got.MarketKind != original.MarketKind {
		t.Errorf("MarketKind = %q, want %q", got.MarketKind, original.MarketKind)
	}
	if got.OutcomeKey != original.OutcomeKey {
		t.Errorf("OutcomeKey = %q, want %q", got.OutcomeKey, original.OutcomeKey)
	}
	if got.Parameter == nil || *got.Parameter != line {
		t.Errorf("Parameter = %v, want %v", got.Parameter, line)
	}
	if got.Player == nil || *got.Player != player {
		t.Errorf("Player = %v, want %v", got.Player, player)
	}
}

func TestParseOpportunityKeyWithNoParameterOrPlayer(t *testing.T) {
	original := models.BetKey{
		EventSha:   "abc123",
		MarketKind: models.MarketMoneyline,
		OutcomeKey: "home",
	}

	got := parseOpportunityKey(original.String())

	if got.Parameter != nil {
		t.Errorf("Parameter = %v, want nil", got.Parameter)
	}
	if got.Player != nil {
		t.Errorf("Player = %v, want nil", got.Player)
	}
}

func TestParseOpportunityKeyMalformedIDReturnsZeroValue(t *testing.T) {
	got := parseOpportunityKey("not-a-valid-key")
	if got != (models.BetKey{}) {
		t.Errorf("expected zero-value BetKey for malformed id, got %+v", got)
	}
}
