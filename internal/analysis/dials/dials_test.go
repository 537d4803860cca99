package dials

import (
	"testing"

	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

func scores(values map[int]int) []models.IndicatorScore {
	var out []models.IndicatorScore
	for id, v := range values {
		out = append(out, models.IndicatorScore{ID: id, Score: v})
	}
	return out
}

func TestMap_NeutralDefaults(t *testing.T) {
	// No scores and no taxonomy: every archetype sits at 50, and only the
	// top 5 of 6 are returned.
	got := Map(nil, nil)

	if len(got) != 5 {
		t.Fatalf("expected 5 dials, got %d", len(got))
	}
	for _, d := range got {
		if d.Intensity != 50 {
			t.Errorf("%s: expected intensity 50, got %d", d.Name, d.Intensity)
		}
		if d.Color == "" {
			t.Errorf("%s: missing color tag", d.Name)
		}
	}
}

func TestMap_IntensityFromScores(t *testing.T) {
	// Driver = {5, 9, 10}: mean 8 -> intensity 80.
	got := Map(scores(map[int]int{5: 8, 9: 8, 10: 8}), nil)

	if got[0].Name != "Driver" {
		t.Fatalf("expected Driver first, got %s", got[0].Name)
	}
	if got[0].Intensity != 80 {
		t.Errorf("expected 80, got %d", got[0].Intensity)
	}
}

func TestMap_HotButtonBoost(t *testing.T) {
	tax := &taxonomy.Taxonomy{
		HotButtons: []taxonomy.HotButtonFlag{{IndicatorID: 4, IsHotButton: true}},
	}

	// Dreamer = {3, 4, 12} touches hot button 4: 50 + 10 = 60.
	got := Map(nil, tax)

	if got[0].Name != "Dreamer" {
		t.Fatalf("expected boosted Dreamer first, got %s", got[0].Name)
	}
	if got[0].Intensity != 60 {
		t.Errorf("expected 60, got %d", got[0].Intensity)
	}
}

func TestMap_BoostCappedAt100(t *testing.T) {
	tax := &taxonomy.Taxonomy{
		HotButtons: []taxonomy.HotButtonFlag{{IndicatorID: 9, IsHotButton: true}},
	}

	got := Map(scores(map[int]int{5: 10, 9: 10, 10: 10}), tax)

	if got[0].Name != "Driver" {
		t.Fatalf("expected Driver first, got %s", got[0].Name)
	}
	if got[0].Intensity != 100 {
		t.Errorf("expected capped 100, got %d", got[0].Intensity)
	}
}

func TestMap_Properties(t *testing.T) {
	got := Map(scores(map[int]int{2: 9, 3: 2, 11: 7, 16: 8}), nil)

	if len(got) > 5 {
		t.Errorf("expected at most 5 dials, got %d", len(got))
	}
	for i, d := range got {
		if d.Intensity < 0 || d.Intensity > 100 {
			t.Errorf("%s: intensity %d out of range", d.Name, d.Intensity)
		}
		if i > 0 && got[i-1].Intensity < d.Intensity {
			t.Errorf("list not sorted at %d", i)
		}
	}
}
