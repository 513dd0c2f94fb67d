package models

import (
	"time"

	"github.com/XavierBriggs/fairedge/internal/oddsmath"
)

// Offer is one book's quoted price for one market outcome at one point in
// time. Offers are append-only inputs to a fetch cycle; they are never
// mutated once observed.
type Offer struct {
	BookKey      string // e.g. "pinnacle", "draftkings"
	OutcomeKey   string
	AmericanOdds int
	ObservedAt   time.Time
}

// DecimalOdds converts the quoted American price to decimal odds, used by
// fair-odds and EV calculations downstream. AmericanOdds is validated
// upstream at ingestion, so the conversion error is not expected here.
func (o Offer) DecimalOdds() float64 {
	decimal, _ := oddsmath.AmericanToDecimal(o.AmericanOdds)
	return decimal
}
