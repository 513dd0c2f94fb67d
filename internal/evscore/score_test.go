package evscore_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fairedge/internal/evscore"
	"github.com/XavierBriggs/fairedge/internal/models"
)

func TestScoreOfferMatchesFormula(t *testing.T) {
	offer := models.Offer{BookKey: "draftkings", OutcomeKey: "home", AmericanOdds: 120}
	fairProbability := 0.5

	score, err := evscore.ScoreOffer(offer, fairProbability, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decimal := 2.2 // +120 -> 2.20
	want := (fairProbability*decimal - 1) * 100

	// Quantified invariant from spec §8: ev_pct equals (fair *
	// american_to_decimal(price) - 1) * 100 within 1e-6.
	if math.Abs(score.EVPct-want) > 1e-6 {
		t.Errorf("EVPct = %f, want %f", score.EVPct, want)
	}
}

func TestScoreOfferAppliesExchangeFee(t *testing.T) {
	offer := models.Offer{BookKey: "betfair_exchange", OutcomeKey: "home", AmericanOdds: 120}
	fees := evscore.ExchangeFees{"betfair_exchange": 0.02}

	withFee, err := evscore.ScoreOffer(offer, 0.5, fees)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutFee, err := evscore.ScoreOffer(offer, 0.5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withFee.EVPct >= withoutFee.EVPct {
		t.Errorf("fee-adjusted EV (%f) should be lower than unadjusted EV (%f)", withFee.EVPct, withoutFee.EVPct)
	}
}

func TestClassificationBoundaries(t *testing.T) {
	tests := []struct {
		evPct float64
		want  models.EVClass
	}{
		{4.5, models.EVPositiveStrong},
		{4.4999, models.EVPositiveMarginal},
		{2.0, models.EVPositiveMarginal},
		{1.9999, models.EVNeutral},
		{0, models.EVNeutral},
		{-1.9999, models.EVNeutral},
		{-2.0, models.EVNegativeMarginal},
		{-4.4999, models.EVNegativeMarginal},
		{-4.5, models.EVNegativeStrong},
	}

	for _, tt := range tests {
		got := models.ClassifyEV(tt.evPct)
		if got != tt.want {
			t.Errorf("ClassifyEV(%v) = %v, want %v", tt.evPct, got, tt.want)
		}
	}
}

func TestBestOfferPicksHighestDecimalPrice(t *testing.T) {
	scores := []evscore.Score{
		{Offer: models.Offer{BookKey: "draftkings", AmericanOdds: -110}},
		{Offer: models.Offer{BookKey: "fanduel", AmericanOdds: 120}},
		{Offer: models.Offer{BookKey: "caesars", AmericanOdds: -200}},
	}

	best, ok := evscore.BestOffer(scores)
	if !ok {
		t.Fatal("expected a best offer")
	}
	if best.Offer.BookKey != "fanduel" {
		t.Errorf("best offer book = %s, want fanduel", best.Offer.BookKey)
	}
}

func TestBestOfferTiesBrokenByBookKey(t *testing.T) {
	scores := []evscore.Score{
		{Offer: models.Offer{BookKey: "zeusbet", AmericanOdds: 120}},
		{Offer: models.Offer{BookKey: "acebet", AmericanOdds: 120}},
	}

	best, ok := evscore.BestOffer(scores)
	if !ok {
		t.Fatal("expected a best offer")
	}
	if best.Offer.BookKey != "acebet" {
		t.Errorf("best offer book = %s, want acebet (lexicographically smallest)", best.Offer.BookKey)
	}
}

func TestSortedBookOffersOrderedByBookKey(t *testing.T) {
	scores := []evscore.Score{
		{Offer: models.Offer{BookKey: "zeusbet", AmericanOdds: 120}},
		{Offer: models.Offer{BookKey: "acebet", AmericanOdds: -110}},
	}

	offers := evscore.SortedBookOffers(scores)
	if offers[0].BookKey != "acebet" || offers[1].BookKey != "zeusbet" {
		t.Errorf("offers not sorted by book key: %+v", offers)
	}
}
