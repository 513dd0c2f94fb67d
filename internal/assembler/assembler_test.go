package assembler_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fairedge/internal/assembler"
	"github.com/XavierBriggs/fairedge/internal/evscore"
	"github.com/XavierBriggs/fairedge/internal/fairodds"
	"github.com/XavierBriggs/fairedge/internal/models"
)

func moneylineGroup(eventID string, homeOdds, awayOdds int, commenceUTC int64) fairodds.MarketGroup {
	event := models.Event{ID: eventID, SportKey: "basketball_nba", Home: "Lakers", Away: "Celtics", CommenceUTC: commenceUTC}
	return fairodds.MarketGroup{
		Event: event,
		Market: models.Market{
			EventID:     eventID,
			Kind:        models.MarketMoneyline,
			OutcomeKeys: []string{"home", "away"},
		},
		Offers: map[string][]models.Offer{
			"home": {{BookKey: "pinnacle", OutcomeKey: "home", AmericanOdds: homeOdds}},
			"away": {{BookKey: "pinnacle", OutcomeKey: "away", AmericanOdds: awayOdds}},
		},
	}
}

func TestAssembleProducesOneOpportunityPerOutcome(t *testing.T) {
	groups := []fairodds.MarketGroup{moneylineGroup("evt1", -110, -110, 1700000000)}

	opportunities, err := assembler.Assemble(groups, nil, time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opportunities) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(opportunities))
	}

	for _, o := range opportunities {
		if o.Event != "Celtics @ Lakers" {
			t.Errorf("Event = %q, want %q", o.Event, "Celtics @ Lakers")
		}
		if o.BestBook != "pinnacle" {
			t.Errorf("BestBook = %q, want pinnacle", o.BestBook)
		}
	}
}

func TestAssembleSkipsUntrustworthyMarketsWithoutFailing(t *testing.T) {
	groups := []fairodds.MarketGroup{
		moneylineGroup("evt1", -110, -110, 1700000000),
		moneylineGroup("evt2", 100000, 100000, 1700000000), // out-of-range overround, skipped
	}

	var loggedSkips []string
	logger := loggerFunc(func(format string, args ...any) {
		loggedSkips = append(loggedSkips, format)
	})

	opportunities, err := assembler.Assemble(groups, nil, time.Now(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opportunities) != 2 {
		t.Fatalf("got %d opportunities, want 2 (only the trustworthy market)", len(opportunities))
	}
	if len(loggedSkips) != 1 {
		t.Errorf("expected exactly one logged skip, got %d", len(loggedSkips))
	}
}

func TestAssembleRanksByEVPercentDescending(t *testing.T) {
	// A generously-priced home side yields a strongly positive EV leg.
	groups := []fairodds.MarketGroup{
		moneylineGroup("evt1", -110, -110, 1700000000),
	}
	groups[0].Offers["home"] = append(groups[0].Offers["home"], models.Offer{
		BookKey: "longshot_book", OutcomeKey: "home", AmericanOdds: 500,
	})

	opportunities, err := assembler.Assemble(groups, nil, time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(opportunities); i++ {
		if opportunities[i-1].EVPct < opportunities[i].EVPct {
			t.Errorf("opportunities not sorted EV% descending: %+v", opportunities)
		}
	}
}

func TestAssembleAppliesExchangeFeeFromFeeMap(t *testing.T) {
	groups := []fairodds.MarketGroup{moneylineGroup("evt1", -110, -110, 1700000000)}
	groups[0].Offers["home"] = []models.Offer{{BookKey: "betfair_exchange", OutcomeKey: "home", AmericanOdds: -110}}

	fees := evscore.ExchangeFees{"betfair_exchange": 0.02}

	withFee, err := assembler.Assemble(groups, fees, time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutFee, err := assembler.Assemble(groups, nil, time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var feeEV, noFeeEV float64
	for _, o := range withFee {
		if o.BetType == models.MarketMoneyline && o.BestBook == "betfair_exchange" {
			feeEV = o.EVPct
		}
	}
	for _, o := range withoutFee {
		if o.BetType == models.MarketMoneyline && o.BestBook == "betfair_exchange" {
			noFeeEV = o.EVPct
		}
	}

	if feeEV >= noFeeEV {
		t.Errorf("fee-adjusted EV (%f) should be lower than unadjusted EV (%f)", feeEV, noFeeEV)
	}
}

type loggerFunc func(format string, args ...any)

func (f loggerFunc) Printf(format string, args ...any) { f(format, args...) }
