package bookmeta_test

import (
	"testing"

	"github.com/XavierBriggs/fairedge/internal/bookmeta"
)

func TestDefaultRegistryExchangeFees(t *testing.T) {
	fees := bookmeta.DefaultRegistry().ExchangeFees()
	fee, ok := fees["betfair_exchange"]
	if !ok {
		t.Fatal("expected betfair_exchange in the default exchange fee map")
	}
	if fee != 0.02 {
		t.Errorf("betfair_exchange fee = %f, want 0.02", fee)
	}
}

func TestExchangeFeesExcludesFixedOddsBooks(t *testing.T) {
	reg := bookmeta.Registry{
		"draftkings": {BookKey: "draftkings", BookType: bookmeta.BookTypeFixedOdds},
	}
	fees := reg.ExchangeFees()
	if len(fees) != 0 {
		t.Errorf("expected no fees for fixed-odds books, got %v", fees)
	}
}

func TestExchangeFeesExcludesZeroFeeExchange(t *testing.T) {
	reg := bookmeta.Registry{
		"freebet_exchange": {BookKey: "freebet_exchange", BookType: bookmeta.BookTypeExchange, ExchangeFee: 0},
	}
	fees := reg.ExchangeFees()
	if len(fees) != 0 {
		t.Errorf("expected a zero-fee exchange to be excluded, got %v", fees)
	}
}
