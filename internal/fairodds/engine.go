// Package fairodds groups raw sportsbook offers by market and computes the
// vig-free fair probability for every outcome.
package fairodds

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/fairedge/internal/models"
	"github.com/XavierBriggs/fairedge/internal/oddsmath"
)

// OutcomeFairOdds is the result for one outcome of one market: its fair
// probability and the fair american price derived from it.
type OutcomeFairOdds struct {
	OutcomeKey      string
	FairProbability float64
	FairAmerican    int
}

// MarketGroup is every observed offer for one market, grouped by outcome,
// ready for de-vigging. One offer per (outcome, book) is expected; when a
// book quotes an outcome more than once within a cycle every quote is kept,
// and the best-price selection below treats them like quotes from
// different books (the highest decimal price wins).
type MarketGroup struct {
	Event   models.Event
	Market  models.Market
	Offers  map[string][]models.Offer // outcome key -> offers from every book
}

// bestPriceImpliedProbabilities picks the highest decimal price per outcome
// to feed the de-vig calculation, since the lowest-vig view of a market is
// built from the best price available on each side.
func (g MarketGroup) bestPriceImpliedProbabilities() ([]string, []float64, error) {
	outcomeKeys := make([]string, 0, len(g.Offers))
	probs := make([]float64, 0, len(g.Offers))

	for _, key := range g.Market.OutcomeKeys {
		offers, ok := g.Offers[key]
		if !ok || len(offers) == 0 {
			return nil, nil, fmt.Errorf("fairodds: no offers for outcome %q", key)
		}

		best := offers[0]
		for _, o := range offers[1:] {
			if o.DecimalOdds() > best.DecimalOdds() {
				best = o
			}
		}

		p, err := oddsmath.AmericanToImpliedProbability(best.AmericanOdds)
		if err != nil {
			return nil, nil, err
		}

		outcomeKeys = append(outcomeKeys, key)
		probs = append(probs, p)
	}

	return outcomeKeys, probs, nil
}

// Compute applies spec §4.2's fair-odds algorithm to one market group: it
// converts the best price per outcome to implied probability, removes vig
// proportionally, and returns the fair american price per outcome.
//
// Returns (nil, reason, nil) when the market must be skipped rather than
// scored — a non-nil reason with a nil error means "skip, no error to log";
// markets flagged untrustworthy are skipped but the reason explains why, for
// the caller to log.
func Compute(group MarketGroup) ([]OutcomeFairOdds, string, error) {
	if len(group.Market.OutcomeKeys) < 2 {
		return nil, "fewer than 2 outcomes", nil
	}

	outcomeKeys, probs, err := group.bestPriceImpliedProbabilities()
	if err != nil {
		return nil, "", err
	}

	sum := 0.0
	for _, p := range probs {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, "non-positive or non-finite implied probability", nil
		}
		sum += p
	}

	if sum <= 0.5 || sum >= 2.0 {
		return nil, "overround out of trusted range (0.5, 2.0)", nil
	}

	fairProbs, err := oddsmath.RemoveVigProportional(probs)
	if err != nil {
		return nil, "", err
	}

	results := make([]OutcomeFairOdds, 0, len(outcomeKeys))
	for i, key := range outcomeKeys {
		american, err := oddsmath.ProbabilityToAmerican(fairProbs[i])
		if err != nil {
			return nil, "", err
		}
		results = append(results, OutcomeFairOdds{
			OutcomeKey:      key,
			FairProbability: fairProbs[i],
			FairAmerican:    american,
		})
	}

	return results, "", nil
}
