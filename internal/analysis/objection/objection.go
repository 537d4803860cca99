// Package objection predicts which objections a prospect is likely to raise,
// ranked by probability, and serves the rebuttal scripts that exist for them.
package objection

import (
	"math"
	"sort"

	"ai-call-readiness-service/internal/models"
)

// Ranking cutoffs.
const (
	minProbability = 30
	maxObjections  = 5
)

// neutralScore substitutes for indicators missing from the current pass.
const neutralScore = 5

// archetype is one row of the fixed objection table. priceType flips the
// probability direction: high price-sensitivity scores predict the price
// objection, while low commitment/trust scores predict the others.
type archetype struct {
	id           string
	text         string
	indicatorIDs []int
	priceType    bool
}

var archetypes = []archetype{
	{
		id:           "price",
		text:         "It's too expensive / I can't afford it",
		indicatorIDs: []int{14, 15, 16},
		priceType:    true,
	},
	{
		id:           "partner",
		text:         "I need to talk to my spouse / business partner first",
		indicatorIDs: []int{9, 11},
	},
	{
		id:           "think",
		text:         "I need to think about it",
		indicatorIDs: []int{4, 10},
	},
	{
		id:           "timing",
		text:         "Now just isn't the right time",
		indicatorIDs: []int{3, 5},
	},
	{
		id:           "skeptic",
		text:         "How do I know this will actually work for me?",
		indicatorIDs: []int{2, 12},
	},
}

// Rank computes the objection probability for each archetype, drops anything
// below the cutoff, and returns at most maxObjections sorted by descending
// probability.
func Rank(scores []models.IndicatorScore) []models.Objection {
	byID := make(map[int]int, len(scores))
	for _, s := range scores {
		byID[s.ID] = s.Score
	}

	var ranked []models.Objection
	for _, a := range archetypes {
		sum := 0
		for _, id := range a.indicatorIDs {
			if v, ok := byID[id]; ok {
				sum += v
			} else {
				sum += neutralScore
			}
		}
		mean := float64(sum) / float64(len(a.indicatorIDs))

		var probability int
		if a.priceType {
			probability = int(math.Round(mean * 10))
		} else {
			probability = int(math.Round((10 - mean) * 10))
		}
		probability = clampPercent(probability)

		if probability < minProbability {
			continue
		}
		ranked = append(ranked, models.Objection{
			ID:                  a.id,
			Text:                a.text,
			Probability:         probability,
			RelatedIndicatorIDs: a.indicatorIDs,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if len(ranked) > maxObjections {
		ranked = ranked[:maxObjections]
	}
	return ranked
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
