package assembler

import (
	"github.com/XavierBriggs/fairedge/internal/fairodds"
	"github.com/XavierBriggs/fairedge/internal/models"
	"github.com/XavierBriggs/fairedge/internal/oddsclient"
)

// BuildMarketGroups flattens one fetch cycle's Snapshot into the
// fairodds.MarketGroup shape, deriving each market's outcome set from the
// distinct outcome keys observed among its offers.
func BuildMarketGroups(snapshot oddsclient.Snapshot) []fairodds.MarketGroup {
	groups := make([]fairodds.MarketGroup, 0)

	for _, se := range snapshot.Events {
		for _, sm := range se.Markets {
			byOutcome := make(map[string][]models.Offer)
			outcomeOrder := make([]string, 0)

			for _, so := range sm.Offers {
				if _, seen := byOutcome[so.OutcomeKey]; !seen {
					outcomeOrder = append(outcomeOrder, so.OutcomeKey)
				}
				byOutcome[so.OutcomeKey] = append(byOutcome[so.OutcomeKey], models.Offer{
					BookKey:      so.BookKey,
					OutcomeKey:   so.OutcomeKey,
					AmericanOdds: so.AmericanOdds,
				})
			}

			market := models.Market{
				EventID:     se.Event.ID,
				Kind:        sm.Kind,
				OutcomeKeys: outcomeOrder,
				Parameter:   sm.Parameter,
				Player:      sm.Player,
			}

			groups = append(groups, fairodds.MarketGroup{
				Event:  se.Event,
				Market: market,
				Offers: byOutcome,
			})
		}
	}

	return groups
}
