package analytics

import (
	"math"

	"revpulse/server/internal/models"
)

// ScoreObservations derives the per-observation demand signals for one
// market: the MPSS price index first, then the blended demand score. The
// input is never mutated.
func ScoreObservations(obs []models.AvailabilityObservation, cfg EngineConfig) []models.ScoredObservation {
	scored := make([]models.ScoredObservation, len(obs))
	for i, o := range obs {
		scored[i] = models.ScoredObservation{AvailabilityObservation: o}
	}
	ScorePriceIndex(scored)
	BlendDemandScores(scored, cfg)
	return scored
}

// ScorePriceIndex sets MPSS from the normalized weighted-average prices.
// Observations whose price failed to parse upstream get a nil MPSS.
func ScorePriceIndex(obs []models.ScoredObservation) {
	prices := make([]*float64, len(obs))
	for i, o := range obs {
		prices[i] = o.WeightedAvgPrice
	}

	for i, score := range NormalizeSeries(prices, false) {
		obs[i].MPSS = score
	}
}

// BlendDemandScores combines inverted-supply scarcity with the price index
// into MarketDemandScore. Must run after ScorePriceIndex. A score is only
// produced when both factors are present; there is no single-factor
// fallback.
func BlendDemandScores(obs []models.ScoredObservation, cfg EngineConfig) {
	supply := make([]*float64, len(obs))
	for i, o := range obs {
		if o.TotalResults != nil {
			v := float64(*o.TotalResults)
			supply[i] = &v
		}
	}

	// Low supply means high scarcity, which scores high
	scarcity := NormalizeSeries(supply, true)

	for i := range obs {
		if scarcity[i] == nil || obs[i].MPSS == nil {
			obs[i].MarketDemandScore = nil
			continue
		}
		blended := *scarcity[i]*cfg.SupplyWeight + *obs[i].MPSS*cfg.PriceWeight
		score := int(math.Round(blended))
		obs[i].MarketDemandScore = &score
	}
}
