package oddsclient

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// wireSnapshot is the shape decoded from the upstream feed's JSON body.
type wireSnapshot struct {
	Events []wireEvent `json:"events"`
}

type wireEvent struct {
	ID            string        `json:"id"`
	SportKey      string        `json:"sport_key"`
	LeagueKey     string        `json:"league_key"`
	CommenceTime  string        `json:"commence_time"`
	Home          string        `json:"home_team"`
	Away          string        `json:"away_team"`
	Markets       []wireMarket  `json:"markets"`
}

type wireMarket struct {
	Kind      string         `json:"kind"`
	Parameter *float64       `json:"parameter,omitempty"`
	Player    *string        `json:"player,omitempty"`
	Offers    []wireOffer    `json:"offers"`
}

type wireOffer struct {
	OutcomeKey string `json:"outcome_key"`
	BookKey    string `json:"book_key"`
	Price      int    `json:"price"`
}

// parseSnapshot converts the upstream wire shape into a Snapshot. A
// malformed event, market, or offer is discarded and logged; the cycle
// continues with the remainder, per spec §7's error-kind 2 ("discard the
// offending event; continue the cycle with the remainder; log"). Only a
// true JSON-decode failure is fatal for the cycle, and that's handled
// separately in client.go before parseSnapshot is ever called.
func parseSnapshot(raw wireSnapshot) Snapshot {
	events := make([]SnapshotEvent, 0, len(raw.Events))

	for _, we := range raw.Events {
		if we.Home == "" || we.Away == "" {
			log.Printf("oddsclient: discarding event %s: empty participant name", we.ID)
			continue
		}

		commence, err := parseCommenceTime(we.CommenceTime)
		if err != nil {
			log.Printf("oddsclient: discarding event %s: %v", we.ID, err)
			continue
		}

		event := models.Event{
			ID:          we.ID,
			SportKey:    we.SportKey,
			LeagueKey:   we.LeagueKey,
			CommenceUTC: commence,
			Home:        we.Home,
			Away:        we.Away,
		}

		markets := make([]SnapshotMarket, 0, len(we.Markets))
		for _, wm := range we.Markets {
			kind := models.MarketKind(wm.Kind)
			if !ClosedMarketKinds[kind] {
				log.Printf("oddsclient: discarding market %q on event %s: unknown market kind", wm.Kind, we.ID)
				continue
			}

			offers := make([]SnapshotOffer, 0, len(wm.Offers))
			for _, wo := range wm.Offers {
				if wo.Price == 0 || (wo.Price > -100 && wo.Price < 100) {
					log.Printf("oddsclient: discarding offer %s/%s on event %s: invalid american price %d", wm.Kind, wo.OutcomeKey, we.ID, wo.Price)
					continue
				}
				offers = append(offers, SnapshotOffer{
					OutcomeKey:   wo.OutcomeKey,
					BookKey:      wo.BookKey,
					AmericanOdds: wo.Price,
				})
			}

			markets = append(markets, SnapshotMarket{
				Kind:      kind,
				Parameter: wm.Parameter,
				Player:    wm.Player,
				Offers:    offers,
			})
		}

		events = append(events, SnapshotEvent{Event: event, Markets: markets})
	}

	return Snapshot{Events: events}
}

// parseCommenceTime accepts Unix seconds (10 digits), Unix milliseconds (13
// digits), or ISO-8601, and normalizes to Unix seconds UTC, per spec §4.6's
// event-time parsing rule (applied here too, at ingestion, since the client
// is where the raw string first needs a decision).
func parseCommenceTime(raw string) (int64, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		switch len(raw) {
		case 10:
			return n, nil
		case 13:
			return n / 1000, nil
		default:
			return 0, fmt.Errorf("ambiguous numeric commence_time %q", raw)
		}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable commence_time %q: %w", raw, err)
	}
	return t.Unix(), nil
}
