// Package dials maps indicator scores onto named psychological patterns and
// ranks the dominant ones.
package dials

import (
	"math"
	"sort"

	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

const (
	maxDials       = 5
	hotButtonBoost = 10
	neutralScore   = 5
)

// archetype is one row of the fixed dial table. Each binds exactly three
// indicators and a display color.
type archetype struct {
	name         string
	color        string
	indicatorIDs [3]int
}

var archetypes = []archetype{
	{name: "Driver", color: "red", indicatorIDs: [3]int{5, 9, 10}},
	{name: "Skeptic", color: "steel", indicatorIDs: [3]int{2, 11, 16}},
	{name: "Dreamer", color: "violet", indicatorIDs: [3]int{3, 4, 12}},
	{name: "Avoider", color: "amber", indicatorIDs: [3]int{5, 10, 13}},
	{name: "Controller", color: "green", indicatorIDs: [3]int{8, 9, 11}},
	{name: "Pleaser", color: "rose", indicatorIDs: [3]int{11, 12, 13}},
}

// Map computes each archetype's intensity from its related indicator scores,
// boosts archetypes touching a taxonomy-flagged hot button, and returns the
// top dials sorted by descending intensity.
func Map(scores []models.IndicatorScore, tax *taxonomy.Taxonomy) []models.PsychologicalDial {
	byID := make(map[int]int, len(scores))
	for _, s := range scores {
		byID[s.ID] = s.Score
	}

	result := make([]models.PsychologicalDial, 0, len(archetypes))
	for _, a := range archetypes {
		sum := 0
		hot := false
		for _, id := range a.indicatorIDs {
			if v, ok := byID[id]; ok {
				sum += v
			} else {
				sum += neutralScore
			}
			if tax != nil && tax.IsHotButton(id) {
				hot = true
			}
		}
		mean := float64(sum) / float64(len(a.indicatorIDs))

		intensity := int(math.Round(mean / 10 * 100))
		if hot {
			intensity += hotButtonBoost
		}
		intensity = clampPercent(intensity)

		result = append(result, models.PsychologicalDial{
			Name:      a.name,
			Intensity: intensity,
			Color:     a.color,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Intensity > result[j].Intensity
	})
	if len(result) > maxDials {
		result = result[:maxDials]
	}
	return result
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
