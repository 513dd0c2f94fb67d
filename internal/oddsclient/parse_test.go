package oddsclient

import (
	"testing"
	"time"
)

func TestParseCommenceTimeUnixSeconds(t *testing.T) {
	got, err := parseCommenceTime("1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Errorf("parseCommenceTime() = %d, want 1700000000", got)
	}
}

func TestParseCommenceTimeUnixMilliseconds(t *testing.T) {
	got, err := parseCommenceTime("1700000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1700000000 {
		t.Errorf("parseCommenceTime() = %d, want 1700000000", got)
	}
}

func TestParseCommenceTimeRFC3339(t *testing.T) {
	raw := "2023-11-14T22:13:20Z"
	got, err := parseCommenceTime(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, _ := time.Parse(time.RFC3339, raw)
	if got != want.Unix() {
		t.Errorf("parseCommenceTime() = %d, want %d", got, want.Unix())
	}
}

func TestParseCommenceTimeAmbiguousNumericRejected(t *testing.T) {
	// Neither 10 nor 13 digits: ambiguous, must be rejected per spec §4.6.
	if _, err := parseCommenceTime("17000000"); err == nil {
		t.Error("expected error for ambiguous numeric commence_time")
	}
}

func TestParseCommenceTimeUnparsableRejected(t *testing.T) {
	if _, err := parseCommenceTime("not-a-time"); err == nil {
		t.Error("expected error for unparsable commence_time")
	}
}

func TestParseSnapshotDiscardsEventWithEmptyParticipantName(t *testing.T) {
	raw := wireSnapshot{
		Events: []wireEvent{
			{ID: "e1", SportKey: "basketball_nba", Home: "", Away: "Celtics", CommenceTime: "1700000000"},
			{ID: "e2", SportKey: "basketball_nba", Home: "Lakers", Away: "Warriors", CommenceTime: "1700000000"},
		},
	}
	snapshot := parseSnapshot(raw)
	if len(snapshot.Events) != 1 {
		t.Fatalf("got %d events, want 1 (the malformed event discarded, the rest kept)", len(snapshot.Events))
	}
	if snapshot.Events[0].Event.ID != "e2" {
		t.Errorf("surviving event = %q, want e2", snapshot.Events[0].Event.ID)
	}
}

func TestParseSnapshotDiscardsMarketWithUnknownKind(t *testing.T) {
	raw := wireSnapshot{
		Events: []wireEvent{
			{
				ID: "e1", SportKey: "basketball_nba", Home: "Lakers", Away: "Celtics", CommenceTime: "1700000000",
				Markets: []wireMarket{
					{Kind: "futures"},
					{Kind: "moneyline", Offers: []wireOffer{{OutcomeKey: "home", BookKey: "pinnacle", Price: -110}}},
				},
			},
		},
	}
	snapshot := parseSnapshot(raw)
	if len(snapshot.Events) != 1 {
		t.Fatalf("got %d events, want 1 (event itself survives)", len(snapshot.Events))
	}
	if len(snapshot.Events[0].Markets) != 1 {
		t.Fatalf("got %d markets, want 1 (the unknown-kind market discarded)", len(snapshot.Events[0].Markets))
	}
	if snapshot.Events[0].Markets[0].Kind != "moneyline" {
		t.Errorf("surviving market = %q, want moneyline", snapshot.Events[0].Markets[0].Kind)
	}
}

func TestParseSnapshotDiscardsOfferWithInvalidAmericanPrice(t *testing.T) {
	raw := wireSnapshot{
		Events: []wireEvent{
			{
				ID: "e1", SportKey: "basketball_nba", Home: "Lakers", Away: "Celtics", CommenceTime: "1700000000",
				Markets: []wireMarket{{
					Kind: "moneyline",
					Offers: []wireOffer{
						{OutcomeKey: "home", BookKey: "pinnacle", Price: 50},
						{OutcomeKey: "away", BookKey: "pinnacle", Price: -110},
					},
				}},
			},
		},
	}
	snapshot := parseSnapshot(raw)
	offers := snapshot.Events[0].Markets[0].Offers
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1 (the invalid-price offer discarded)", len(offers))
	}
	if offers[0].OutcomeKey != "away" {
		t.Errorf("surviving offer = %q, want away", offers[0].OutcomeKey)
	}
}

func TestParseSnapshotAcceptsWellFormedSnapshot(t *testing.T) {
	raw := wireSnapshot{
		Events: []wireEvent{
			{
				ID: "e1", SportKey: "basketball_nba", Home: "Lakers", Away: "Celtics", CommenceTime: "1700000000",
				Markets: []wireMarket{{
					Kind: "moneyline",
					Offers: []wireOffer{
						{OutcomeKey: "home", BookKey: "pinnacle", Price: -110},
						{OutcomeKey: "away", BookKey: "pinnacle", Price: -110},
					},
				}},
			},
		},
	}

	snapshot := parseSnapshot(raw)
	if len(snapshot.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(snapshot.Events))
	}
	if len(snapshot.Events[0].Markets[0].Offers) != 2 {
		t.Errorf("got %d offers, want 2", len(snapshot.Events[0].Markets[0].Offers))
	}
}

func TestValidateSportKeysRejectsUnknown(t *testing.T) {
	if err := validateSportKeys([]string{"basketball_nba", "curling"}); err == nil {
		t.Error("expected error for unknown sport key")
	}
	if err := validateSportKeys([]string{"basketball_nba"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
