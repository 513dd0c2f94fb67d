// Package entitlement applies the per-tier visibility rules from spec §4.9
// as a pure function: (tier, opportunities) -> filtered opportunities.
package entitlement

import (
	"sort"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// Tier is the closed set of requester roles.
type Tier string

const (
	TierAnonymous Tier = "free"
	TierBasic     Tier = "basic"
	TierPremium   Tier = "premium"
	TierAdmin     Tier = "admin"
)

const freeTierSizeCap = 10

// Filter applies tier rules to a ranked opportunity list and returns the
// filtered, capped result. The input is assumed already sorted per
// internal/assembler's ranking. Filtering keeps the input order; when the
// free-tier cap applies, the kept subset is stably re-sorted by EV%
// descending (see truncateToMostNegative).
func Filter(tier Tier, opportunities []models.Opportunity) []models.Opportunity {
	filtered := make([]models.Opportunity, 0, len(opportunities))

	for _, opp := range opportunities {
		if !passesEVFilter(tier, opp) {
			continue
		}
		if !passesMarketFilter(tier, opp) {
			continue
		}
		filtered = append(filtered, opp)
	}

	if cap := sizeCap(tier); cap > 0 && len(filtered) > cap {
		filtered = truncateToMostNegative(filtered, cap)
	}

	return filtered
}

// truncateToMostNegative keeps the cap opportunities with the lowest (most
// negative) EV%, per spec §8 S3, rather than just the first cap entries in
// the input's EV%-descending order (which would keep the least-negative
// qualifying opportunities instead). The kept set is restored to the
// standard EV%-descending display order before returning.
func truncateToMostNegative(opportunities []models.Opportunity, cap int) []models.Opportunity {
	ascending := make([]models.Opportunity, len(opportunities))
	copy(ascending, opportunities)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].EVPct < ascending[j].EVPct
	})

	kept := ascending[:cap]
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EVPct > kept[j].EVPct
	})
	return kept
}

func passesEVFilter(tier Tier, opp models.Opportunity) bool {
	if tier == TierAnonymous {
		return opp.EVPct <= -2.0
	}
	return true
}

func passesMarketFilter(tier Tier, opp models.Opportunity) bool {
	switch tier {
	case TierAnonymous, TierBasic:
		return opp.BetType.IsMainLine()
	default:
		return true
	}
}

func sizeCap(tier Tier) int {
	if tier == TierAnonymous {
		return freeTierSizeCap
	}
	return 0
}
