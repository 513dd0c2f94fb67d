// Package assembler joins raw offers, fair probabilities, and EV scores
// into ranked Opportunity records, one per (market, outcome) with a valid
// fair probability.
package assembler

import (
	"fmt"
	"sort"
	"time"

	"github.com/XavierBriggs/fairedge/internal/evscore"
	"github.com/XavierBriggs/fairedge/internal/fairodds"
	"github.com/XavierBriggs/fairedge/internal/models"
)

// Logger receives a one-line note per skipped market, mirroring the
// teacher's fmt.Printf status lines (edge-detector/internal/detector/engine.go).
type Logger interface {
	Printf(format string, args ...any)
}

// Assemble runs the fair-odds engine and EV scorer over every market group
// in one cycle's snapshot and returns the ranked Opportunity list, per spec
// §4.4's ranking: EV% descending, then classification band, then event
// start time ascending.
func Assemble(groups []fairodds.MarketGroup, fees evscore.ExchangeFees, snapshotAt time.Time, logger Logger) ([]models.Opportunity, error) {
	opportunities := make([]models.Opportunity, 0, len(groups))

	for _, group := range groups {
		fair, skipReason, err := fairodds.Compute(group)
		if err != nil {
			return nil, fmt.Errorf("assembler: market %s: %w", group.Market.GroupKey(group.Event), err)
		}
		if skipReason != "" {
			if logger != nil {
				logger.Printf("skipping market %s: %s", group.Market.GroupKey(group.Event), skipReason)
			}
			continue
		}

		for _, outcome := range fair {
			offers := group.Offers[outcome.OutcomeKey]
			scores, err := evscore.ScoreOutcome(offers, outcome.FairProbability, fees)
			if err != nil {
				return nil, fmt.Errorf("assembler: scoring outcome %s: %w", outcome.OutcomeKey, err)
			}

			best, ok := evscore.BestOffer(scores)
			if !ok {
				continue
			}

			opportunities = append(opportunities, models.Opportunity{
				ID:             group.Market.BetKeyFor(group.Event, outcome.OutcomeKey).String(),
				Event:          group.Event.DisplayName(),
				BetDescription: betDescription(group.Market, outcome.OutcomeKey),
				BetType:        group.Market.Kind,
				SportKey:       group.Event.SportKey,
				FairOdds:       outcome.FairAmerican,
				BestAmerican:   best.Offer.AmericanOdds,
				BestBook:       best.Offer.BookKey,
				EVPct:          best.EVPct,
				EVClass:        best.EVClass,
				AllOffers:      evscore.SortedBookOffers(scores),
				SnapshotAt:     snapshotAt,
				EventStartUTC:  group.Event.CommenceUTC,
			})
		}
	}

	sortOpportunities(opportunities)
	return opportunities, nil
}

func betDescription(m models.Market, outcomeKey string) string {
	switch {
	case m.Parameter != nil && m.Player != nil:
		return fmt.Sprintf("%s %s %.1f", *m.Player, outcomeKey, *m.Parameter)
	case m.Parameter != nil:
		return fmt.Sprintf("%s %.1f", outcomeKey, *m.Parameter)
	case m.Player != nil:
		return fmt.Sprintf("%s %s", *m.Player, outcomeKey)
	default:
		return outcomeKey
	}
}

var classRank = map[models.EVClass]int{
	models.EVPositiveStrong:   0,
	models.EVPositiveMarginal: 1,
	models.EVNeutral:          2,
	models.EVNegativeMarginal: 3,
	models.EVNegativeStrong:   4,
}

func sortOpportunities(opps []models.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i], opps[j]
		if a.EVPct != b.EVPct {
			return a.EVPct > b.EVPct
		}
		if classRank[a.EVClass] != classRank[b.EVClass] {
			return classRank[a.EVClass] < classRank[b.EVClass]
		}
		return a.EventStartUTC < b.EventStartUTC
	})
}
