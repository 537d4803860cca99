// Package truthindex scores response authenticity by checking the current
// pillar/indicator snapshot against a fixed table of cross-pillar
// inconsistency rules. Each triggered rule subtracts its penalty from 100.
package truthindex

import (
	"ai-call-readiness-service/internal/analysis/pillar"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// Indicator ids referenced by the rule table.
const (
	indPainSeverity      = 1
	indDesireClarity     = 3
	indDesirePriority    = 4
	indDecisionAuthority = 9
	indDecisionSpeed     = 10
	indIndependence      = 11
)

// Explanation strings, one per score band.
const (
	explanationClean      = "No defensiveness patterns detected - responses appear consistent and authentic"
	explanationMinor      = "Minor inconsistencies detected - mostly authentic responses"
	explanationModerate   = "Moderate defensiveness - several answers contradict each other"
	explanationDefensive  = "Strong defensive patterns - prospect is likely telling you what you want to hear"
	explanationNoBaseline = "Analysis pending - insufficient conversation data"
)

// PendingExplanation is the explanation carried by the baseline result for
// conversations too short to analyze.
const PendingExplanation = explanationNoBaseline

// snapshot bundles the aggregated state a rule predicate reads.
type snapshot struct {
	pillars    []models.PillarScore
	indicators []models.IndicatorScore
}

func (s snapshot) indicatorScore(id int) (int, bool) {
	for _, in := range s.indicators {
		if in.ID == id {
			return in.Score, true
		}
	}
	return 0, false
}

func (s snapshot) pillarAverage(id string) (float64, bool) {
	p, ok := pillar.ByID(s.pillars, id)
	if !ok {
		return 0, false
	}
	return p.AverageScore, true
}

// highDesire is the shared condition of rules T2 and T5: a clearly stated or
// highly prioritized desire.
func (s snapshot) highDesire() bool {
	if v, ok := s.indicatorScore(indDesireClarity); ok && v >= 7 {
		return true
	}
	if v, ok := s.indicatorScore(indDesirePriority); ok && v >= 7 {
		return true
	}
	return false
}

// rule is one row of the penalty table. Rules are independent: no predicate
// reads another rule's outcome, and any number may fire on one snapshot.
type rule struct {
	id          string
	description string
	penalty     int
	predicate   func(snapshot) bool
}

var rules = []rule{
	{
		id:          "T1",
		description: "High pain reported but no urgency to act on it",
		penalty:     15,
		predicate: func(s snapshot) bool {
			pain, ok := s.indicatorScore(indPainSeverity)
			if !ok || pain < 7 {
				return false
			}
			urgency, ok := s.pillarAverage(taxonomy.PillarUrgency)
			return ok && urgency <= 4
		},
	},
	{
		id:          "T2",
		description: "Strong stated desire but indecisive behavior",
		penalty:     15,
		predicate: func(s snapshot) bool {
			if !s.highDesire() {
				return false
			}
			dec, ok := s.pillarAverage(taxonomy.PillarDecisiveness)
			return ok && dec <= 4
		},
	},
	{
		id:          "T3",
		description: "Claims money is available yet fixates on price",
		penalty:     10,
		predicate: func(s snapshot) bool {
			money, ok := s.pillarAverage(taxonomy.PillarMoney)
			if !ok || money < 7 {
				return false
			}
			rawPS, ok := pillar.RawPriceSensitivity(s.pillars)
			return ok && rawPS >= 8
		},
	},
	{
		id:          "T4",
		description: "Claims sole decision authority but signals a need for approval",
		penalty:     10,
		predicate: func(s snapshot) bool {
			authority, ok := s.indicatorScore(indDecisionAuthority)
			if !ok || authority < 7 {
				return false
			}
			for _, id := range []int{indDecisionAuthority, indDecisionSpeed, indIndependence} {
				if v, ok := s.indicatorScore(id); ok && v < 5 {
					return true
				}
			}
			return false
		},
	},
	{
		id:          "T5",
		description: "Strong stated desire but deflects responsibility",
		penalty:     15,
		predicate: func(s snapshot) bool {
			if !s.highDesire() {
				return false
			}
			resp, ok := s.pillarAverage(taxonomy.PillarResponsibility)
			return ok && resp <= 5
		},
	},
}

// Evaluate runs the rule table against the snapshot. Penalties are additive
// and the list carries only triggered rules. Score is clamped at 0.
func Evaluate(pillars []models.PillarScore, indicators []models.IndicatorScore) models.TruthIndexResult {
	s := snapshot{pillars: pillars, indicators: indicators}

	var penalties []models.TruthPenalty
	total := 0
	for _, r := range rules {
		if !r.predicate(s) {
			continue
		}
		total += r.penalty
		penalties = append(penalties, models.TruthPenalty{
			RuleID:      r.id,
			Description: r.description,
			Penalty:     r.penalty,
			Triggered:   true,
		})
	}

	score := 100 - total
	if score < 0 {
		score = 0
	}

	return models.TruthIndexResult{
		Score:       score,
		Penalties:   penalties,
		Explanation: explanation(score, len(penalties)),
	}
}

// explanation picks the single explanation string by the first matching band.
func explanation(score, triggered int) string {
	switch {
	case triggered == 0:
		return explanationClean
	case score >= 75:
		return explanationMinor
	case score >= 50:
		return explanationModerate
	default:
		return explanationDefensive
	}
}
