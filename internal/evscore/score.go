// Package evscore computes expected-value percentages for individual
// sportsbook offers against a fair probability, applies commission-exchange
// fee adjustment, and classifies the result into spec §4.3's bands.
package evscore

import (
	"fmt"
	"sort"

	"github.com/XavierBriggs/fairedge/internal/models"
	"github.com/XavierBriggs/fairedge/internal/oddsmath"
)

// ExchangeFees maps a book key to its take rate (e.g. 0.02 for 2%). Books
// absent from the map are treated as ordinary fixed-odds books with no fee.
type ExchangeFees map[string]float64

// Score is the EV result for one offer.
type Score struct {
	Offer   models.Offer
	EVPct   float64
	EVClass models.EVClass
}

// ScoreOffer computes ev = fair_probability * decimal_odds - 1 for one
// offer, applying the exchange-fee adjustment first when the offer's book
// is a configured commission exchange: decimal' = 1 + (decimal-1)*(1-fee).
func ScoreOffer(offer models.Offer, fairProbability float64, fees ExchangeFees) (Score, error) {
	if fairProbability <= 0 || fairProbability >= 1 {
		return Score{}, fmt.Errorf("evscore: fair probability must be between 0 and 1, got %v", fairProbability)
	}

	decimal, err := oddsmath.AmericanToDecimal(offer.AmericanOdds)
	if err != nil {
		return Score{}, err
	}

	if fee, ok := fees[offer.BookKey]; ok && fee > 0 {
		decimal = 1 + (decimal-1)*(1-fee)
	}

	ev := fairProbability*decimal - 1
	evPct := ev * 100

	return Score{
		Offer:   offer,
		EVPct:   evPct,
		EVClass: models.ClassifyEV(evPct),
	}, nil
}

// ScoreOutcome scores every offer for one outcome and returns the scores in
// the same order as the input offers.
func ScoreOutcome(offers []models.Offer, fairProbability float64, fees ExchangeFees) ([]Score, error) {
	scores := make([]Score, 0, len(offers))
	for _, o := range offers {
		s, err := ScoreOffer(o, fairProbability, fees)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// BestOffer picks the recommended offer among scores for the same outcome:
// highest decimal price; ties broken by lexicographically smallest book id.
func BestOffer(scores []Score) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}

	best := scores[0]
	bestDecimal, _ := oddsmath.AmericanToDecimal(best.Offer.AmericanOdds)

	for _, s := range scores[1:] {
		decimal, _ := oddsmath.AmericanToDecimal(s.Offer.AmericanOdds)
		switch {
		case decimal > bestDecimal:
			best, bestDecimal = s, decimal
		case decimal == bestDecimal && s.Offer.BookKey < best.Offer.BookKey:
			best, bestDecimal = s, decimal
		}
	}

	return best, true
}

// SortedBookOffers renders every score as a display offer, sorted by book
// key for stable output.
func SortedBookOffers(scores []Score) []models.BookOffer {
	offers := make([]models.BookOffer, 0, len(scores))
	for _, s := range scores {
		offers = append(offers, models.BookOffer{
			BookKey:      s.Offer.BookKey,
			AmericanOdds: s.Offer.AmericanOdds,
		})
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].BookKey < offers[j].BookKey })
	return offers
}
