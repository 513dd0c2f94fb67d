// Package bookmeta holds the closed, configured registry of sportsbooks
// this system knows about: display names and which ones are commission
// exchanges requiring the EV fee adjustment in internal/evscore.
package bookmeta

// BookType classifies a sportsbook for display and fee-adjustment purposes.
type BookType string

const (
	BookTypeFixedOdds BookType = "fixed_odds"
	BookTypeExchange  BookType = "exchange"
)

// Book is one entry in the registry.
type Book struct {
	BookKey     string
	DisplayName string
	BookType    BookType
	ExchangeFee float64 // take rate, e.g. 0.02 for 2%; only meaningful when BookType == BookTypeExchange
}

// Registry is the closed, configured set of known books, keyed by BookKey.
type Registry map[string]Book

// DefaultRegistry matches spec §4.3's default: one specific exchange at a
// 2% take, everything else ordinary fixed-odds.
func DefaultRegistry() Registry {
	return Registry{
		"betfair_exchange": {BookKey: "betfair_exchange", DisplayName: "Betfair Exchange", BookType: BookTypeExchange, ExchangeFee: 0.02},
	}
}

// ExchangeFees projects the registry down to the book-key -> fee map
// consumed by evscore.ScoreOffer.
func (r Registry) ExchangeFees() map[string]float64 {
	fees := make(map[string]float64)
	for key, b := range r {
		if b.BookType == BookTypeExchange && b.ExchangeFee > 0 {
			fees[key] = b.ExchangeFee
		}
	}
	return fees
}
