package oddsclient

import (
	"fmt"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// SnapshotMarket is one market within a SnapshotEvent, pre-grouping: a flat
// list of (outcome, book, price) rows as returned by the upstream feed.
type SnapshotMarket struct {
	Kind      models.MarketKind
	Parameter *float64
	Player    *string
	Offers    []SnapshotOffer
}

// SnapshotOffer is one upstream (outcome, book, price) row.
type SnapshotOffer struct {
	OutcomeKey   string
	BookKey      string
	AmericanOdds int
}

// SnapshotEvent is one event with all of its markets, as returned by
// FetchSnapshot.
type SnapshotEvent struct {
	Event   models.Event
	Markets []SnapshotMarket
}

// Snapshot is the full tree returned by one fetch cycle: Event -> Market ->
// Outcome -> {(book, american_price)}, per spec §4.1.
type Snapshot struct {
	Events []SnapshotEvent
}

// ClosedSportKeys is the closed set of sport keys this system ingests.
var ClosedSportKeys = map[string]bool{
	"basketball_nba": true,
	"americanfootball_nfl": true,
	"baseball_mlb": true,
	"icehockey_nhl": true,
	"soccer_epl": true,
}

// ClosedMarketKinds is the closed set of market kinds this system ingests.
var ClosedMarketKinds = map[models.MarketKind]bool{
	models.MarketMoneyline:  true,
	models.MarketSpread:     true,
	models.MarketTotal:      true,
	models.MarketPlayerProp: true,
}

func validateSportKeys(sportKeys []string) error {
	for _, s := range sportKeys {
		if !ClosedSportKeys[s] {
			return fmt.Errorf("oddsclient: unknown sport key %q", s)
		}
	}
	return nil
}

func validateMarketKinds(kinds []models.MarketKind) error {
	for _, k := range kinds {
		if !ClosedMarketKinds[k] {
			return fmt.Errorf("oddsclient: unknown market kind %q", k)
		}
	}
	return nil
}
