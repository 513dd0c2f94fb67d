package oddsmath

import "fmt"

// RemoveVigProportional removes vig from an N-way market by normalizing
// implied probabilities so they sum to 1.
//
// Formula (spec §4.2):
//  1. Convert every outcome's price to implied probability (done by the
//     caller; this function takes probabilities directly).
//  2. Sum the probabilities: S = sum(p_i). S is the overround and is
//     typically > 1.0.
//  3. Normalize: fair_i = p_i / S.
//
// This generalizes the two-way multiplicative method to any outcome count
// (moneylines, three-way soccer lines, totals, player props) since
// proportional normalization is symmetric in the number of outcomes.
func RemoveVigProportional(probabilities []float64) ([]float64, error) {
	if len(probabilities) < 2 {
		return nil, fmt.Errorf("need at least 2 outcomes")
	}

	sum := 0.0
	for _, p := range probabilities {
		if p <= 0 || p >= 1 {
			return nil, fmt.Errorf("all probabilities must be between 0 and 1")
		}
		sum += p
	}

	if sum <= 0 {
		return nil, fmt.Errorf("probabilities must sum to a positive value")
	}

	fair := make([]float64, len(probabilities))
	for i, p := range probabilities {
		fair[i] = p / sum
	}

	return fair, nil
}

// VigPercentage reports the overround of a set of implied probabilities as
// a percentage: (sum - 1.0) * 100. A market with no vig (or a market priced
// favorably to the bettor) reports <= 0.
func VigPercentage(probabilities []float64) (float64, error) {
	if len(probabilities) == 0 {
		return 0, fmt.Errorf("no probabilities provided")
	}

	sum := 0.0
	for _, p := range probabilities {
		if p <= 0 || p >= 1 {
			return 0, fmt.Errorf("all probabilities must be between 0 and 1")
		}
		sum += p
	}

	return (sum - 1.0) * 100.0, nil
}
