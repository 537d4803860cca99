// Package lubometer computes the composite readiness score: pillar raw sum
// minus truth-index penalties, banded into a readiness zone, projected onto
// fixed price tiers, and gated by hard close-blocker rules.
package lubometer

import (
	"math"

	"ai-call-readiness-service/internal/analysis/pillar"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// nominalMax is the nominal raw-score maximum (pillar weights sum to 9.0,
// scores top out at 10).
const nominalMax = 90.0

// Fixed price tiers.
const (
	priceStarter      = 2997
	priceProfessional = 7997
	priceElite        = 15997
)

// Zone boundaries, inclusive on the lower bound of each band.
const (
	greenFloor  = 70.0
	yellowFloor = 50.0
	redFloor    = 30.0
)

// Close-blocker reasons.
const (
	blockerNoPainNoUrgency = "no real pain and no urgency - nothing to close against"
	blockerPriceOverMoney  = "high price sensitivity with no money available - close would not stick"
)

// Calculate combines the aggregated pillar scores and the truth index into
// the final readiness result. Penalties are recomputed from the truth-index
// entry list rather than trusted as pre-summed.
func Calculate(pillars []models.PillarScore, truth models.TruthIndexResult) models.LubometerResult {
	raw := pillar.RawScore(pillars)

	penalties := 0
	for _, p := range truth.Penalties {
		if p.Triggered {
			penalties += p.Penalty
		}
	}

	final := raw - float64(penalties)
	if final < 0 {
		final = 0
	}

	return models.LubometerResult{
		RawScore:   raw,
		Penalties:  penalties,
		FinalScore: final,
		Zone:       zoneFor(final),
		PriceTiers: priceTiers(final, pillars),
	}
}

// zoneFor bands a final score into a readiness zone.
func zoneFor(final float64) models.ReadinessZone {
	switch {
	case final >= greenFloor:
		return models.ZoneGreen
	case final >= yellowFloor:
		return models.ZoneYellow
	case final >= redFloor:
		return models.ZoneRed
	default:
		return models.ZoneNoGo
	}
}

// priceTiers projects the final score onto per-tier readiness percentages.
// Higher tiers get discounted when money availability or price sensitivity
// signals say the prospect cannot carry the price point. A missing pillar
// skips its modifier: absence is "no data", never a discount.
func priceTiers(final float64, pillars []models.PillarScore) []models.PriceTier {
	base := math.Min(100, final/nominalMax*100)

	moneyAvg, hasMoney := pillarAverage(pillars, taxonomy.PillarMoney)
	psAvg, hasPS := pillarAverage(pillars, taxonomy.PriceSensitivityPillarID)

	starter := math.Min(100, base*1.1)

	professional := base
	if hasMoney && moneyAvg < 6 {
		professional *= 0.85
	}

	elite := base
	if hasMoney && moneyAvg < 7 {
		elite *= 0.7
	}
	if hasPS && psAvg > 7 {
		elite *= 0.8
	}

	return []models.PriceTier{
		{Price: priceStarter, Readiness: clampPercent(starter), Label: "Starter"},
		{Price: priceProfessional, Readiness: clampPercent(professional), Label: "Professional"},
		{Price: priceElite, Readiness: clampPercent(elite), Label: "Elite"},
	}
}

// BaselineTiers returns the zeroed tier list used by the baseline result.
func BaselineTiers() []models.PriceTier {
	return []models.PriceTier{
		{Price: priceStarter, Readiness: 0, Label: "Starter"},
		{Price: priceProfessional, Readiness: 0, Label: "Professional"},
		{Price: priceElite, Readiness: 0, Label: "Elite"},
	}
}

// CheckCloseBlockers applies the hard business rules that veto a close
// regardless of score. Uses the raw (pre-inversion) price sensitivity.
func CheckCloseBlockers(pillars []models.PillarScore) models.CloseBlockerResult {
	painAvg, hasPain := pillarAverage(pillars, taxonomy.PillarPain)
	urgencyAvg, hasUrgency := pillarAverage(pillars, taxonomy.PillarUrgency)
	if hasPain && hasUrgency && painAvg <= 6 && urgencyAvg <= 5 {
		return models.CloseBlockerResult{Closeable: false, Reason: blockerNoPainNoUrgency}
	}

	rawPS, hasPS := pillar.RawPriceSensitivity(pillars)
	moneyAvg, hasMoney := pillarAverage(pillars, taxonomy.PillarMoney)
	if hasPS && hasMoney && rawPS >= 7 && moneyAvg <= 5 {
		return models.CloseBlockerResult{Closeable: false, Reason: blockerPriceOverMoney}
	}

	return models.CloseBlockerResult{Closeable: true}
}

func pillarAverage(pillars []models.PillarScore, id string) (float64, bool) {
	p, ok := pillar.ByID(pillars, id)
	if !ok {
		return 0, false
	}
	return p.AverageScore, true
}

func clampPercent(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
