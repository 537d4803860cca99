// Package redflag flags findings that deserve the closer's attention
// regardless of the composite score. The pipeline depends only on the
// Detector interface; the rule-based implementation here is the default
// provider and can be swapped out.
package redflag

import (
	"ai-call-readiness-service/internal/analysis/pillar"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// Detector produces red flags from the computed analysis state.
type Detector interface {
	Detect(indicators []models.IndicatorScore, pillars []models.PillarScore, truth models.TruthIndexResult) []models.RedFlag
}

// RuleBased is the default threshold-rule detector.
type RuleBased struct{}

// NewRuleBased returns the default detector.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Detect applies the fixed threshold rules. Missing pillars never flag.
func (d *RuleBased) Detect(indicators []models.IndicatorScore, pillars []models.PillarScore, truth models.TruthIndexResult) []models.RedFlag {
	var flags []models.RedFlag

	if truth.Score < 50 {
		flags = append(flags, models.RedFlag{
			Text:     "Answers contradict each other - treat stated commitments with caution",
			Severity: models.SeverityHigh,
		})
	}

	if avg, ok := pillarAverage(pillars, taxonomy.PillarMoney); ok && avg <= 3 {
		flags = append(flags, models.RedFlag{
			Text:     "No funds available - any close would likely fall through in collection",
			Severity: models.SeverityHigh,
		})
	}

	if rawPS, ok := pillar.RawPriceSensitivity(pillars); ok && rawPS >= 8 {
		flags = append(flags, models.RedFlag{
			Text:     "Extreme price fixation - expect heavy discount pressure",
			Severity: models.SeverityMedium,
		})
	}

	if score, ok := indicatorScore(indicators, 13); ok && score <= 3 {
		flags = append(flags, models.RedFlag{
			Text:     "Blames past programs and coaches - likely to become a refund risk",
			Severity: models.SeverityMedium,
		})
	}

	if avg, ok := pillarAverage(pillars, taxonomy.PillarUrgency); ok && avg <= 3 {
		flags = append(flags, models.RedFlag{
			Text:     "No urgency signals - prospect may be browsing, not buying",
			Severity: models.SeverityLow,
		})
	}

	return flags
}

func pillarAverage(pillars []models.PillarScore, id string) (float64, bool) {
	p, ok := pillar.ByID(pillars, id)
	if !ok {
		return 0, false
	}
	return p.AverageScore, true
}

func indicatorScore(indicators []models.IndicatorScore, id int) (int, bool) {
	for _, in := range indicators {
		if in.ID == id {
			return in.Score, true
		}
	}
	return 0, false
}
