// Package pillar aggregates indicator scores into weighted pillar scores.
package pillar

import (
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// Aggregate groups indicator scores by pillar, averages them, applies the
// price-sensitivity inversion and the pillar weight. Pillars with no scored
// indicators are skipped entirely: absence means "no data", not zero, and
// callers must treat it that way.
func Aggregate(pillars []taxonomy.Pillar, scores []models.IndicatorScore) []models.PillarScore {
	results := make([]models.PillarScore, 0, len(pillars))
	for _, p := range pillars {
		var members []models.IndicatorScore
		sum := 0
		for _, s := range scores {
			if s.PillarID == p.ID {
				members = append(members, s)
				sum += s.Score
			}
		}
		if len(members) == 0 {
			continue
		}

		avg := float64(sum) / float64(len(members))
		if p.ID == taxonomy.PriceSensitivityPillarID {
			// Raw price sensitivity scores higher = more sensitive;
			// readiness wants higher = more ready. Mirror on the
			// 11-point scale.
			avg = 11 - avg
		}

		results = append(results, models.PillarScore{
			ID:            p.ID,
			Name:          p.Name,
			AverageScore:  avg,
			WeightedScore: avg * p.Weight,
			Weight:        p.Weight,
			Indicators:    members,
		})
	}
	return results
}

// RawScore sums weighted scores across all pillars present.
func RawScore(pillars []models.PillarScore) float64 {
	total := 0.0
	for _, p := range pillars {
		total += p.WeightedScore
	}
	return total
}

// ByID returns the pillar score with the given id, if present.
func ByID(pillars []models.PillarScore, id string) (models.PillarScore, bool) {
	for _, p := range pillars {
		if p.ID == id {
			return p, true
		}
	}
	return models.PillarScore{}, false
}

// RawPriceSensitivity recovers the pre-inversion price-sensitivity average
// from an aggregated pillar set. Second return is false when the pillar has
// no data.
func RawPriceSensitivity(pillars []models.PillarScore) (float64, bool) {
	p, ok := ByID(pillars, taxonomy.PriceSensitivityPillarID)
	if !ok {
		return 0, false
	}
	return 11 - p.AverageScore, true
}
