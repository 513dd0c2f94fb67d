package models

import "time"

// EVClass is the closed set of classification bands a scored Opportunity
// falls into, per the boundaries in spec §4.3.
type EVClass string

const (
	EVPositiveStrong   EVClass = "positive_strong"
	EVPositiveMarginal EVClass = "positive_marginal"
	EVNeutral          EVClass = "neutral"
	EVNegativeMarginal EVClass = "negative_marginal"
	EVNegativeStrong   EVClass = "negative_strong"
)

// ClassifyEV buckets an EV percentage into its band. Boundaries are
// inclusive on the side nearer zero's positive threshold and the negative
// threshold, per the table in spec §4.3:
//
//	ev >= 4.5           -> positive_strong
//	2.0 <= ev < 4.5      -> positive_marginal
//	-2.0 < ev < 2.0      -> neutral
//	-4.5 < ev <= -2.0    -> negative_marginal
//	ev <= -4.5           -> negative_strong
func ClassifyEV(evPct float64) EVClass {
	switch {
	case evPct >= 4.5:
		return EVPositiveStrong
	case evPct >= 2.0:
		return EVPositiveMarginal
	case evPct > -2.0:
		return EVNeutral
	case evPct > -4.5:
		return EVNegativeMarginal
	default:
		return EVNegativeStrong
	}
}

// BookOffer is the wire/display shape of one book's price within an
// Opportunity's offer list.
type BookOffer struct {
	BookKey      string `json:"book"`
	AmericanOdds int    `json:"price"`
}

// Opportunity is the fully derived, ranked record surfaced to readers: one
// market outcome, its fair odds, its best available price, every observed
// price, and its EV classification. Opportunities are recomputed from
// scratch every cycle and never persisted directly — Bet/Offer rows are the
// durable record.
type Opportunity struct {
	ID             string      `json:"id"`
	Event          string      `json:"event"`
	BetDescription string      `json:"bet_description"`
	BetType        MarketKind  `json:"bet_type"`
	SportKey       string      `json:"sport"`
	FairOdds       int         `json:"fair_odds"`
	BestAmerican   int         `json:"best_odds"`
	BestBook       string      `json:"best_book"`
	EVPct          float64     `json:"ev_pct"`
	EVClass        EVClass     `json:"ev_class"`
	AllOffers      []BookOffer `json:"all_offers"`
	SnapshotAt     time.Time   `json:"ts"`

	// EventStartUTC is not part of the wire shape; it is carried only to
	// break ranking ties by event start time ascending, per spec §4.4.
	EventStartUTC int64 `json:"-"`
}
