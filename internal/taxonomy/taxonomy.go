// Package taxonomy supplies the pillar/indicator/criteria definitions the
// scoring pipeline runs against. A taxonomy is loaded once per process,
// validated, cached and immutable thereafter.
package taxonomy

import (
	"fmt"
	"strings"
)

// PriceSensitivityPillarID identifies the one pillar whose raw average is
// mirrored (11 - mean) during aggregation: raw scoring treats higher as more
// price sensitive, readiness wants higher as more ready.
const PriceSensitivityPillarID = "price_sensitivity"

// Well-known pillar identifiers referenced by the rule tables.
const (
	PillarPain           = "pain"
	PillarUrgency        = "urgency"
	PillarMoney          = "money"
	PillarDecisiveness   = "decisiveness"
	PillarResponsibility = "responsibility"
)

// Band is the scoring band of a criterion.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// ParseBand normalizes a band string. Unknown values are passed through;
// the scorer treats them as a neutral mid-weight match.
func ParseBand(s string) Band {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BandLow
	case "mid", "medium":
		return BandMid
	case "high":
		return BandHigh
	default:
		return Band(s)
	}
}

// ScoringCriterion is one band of an indicator's rubric. The sample question
// and example answer double as the keyword template the scorer matches
// transcript text against.
type ScoringCriterion struct {
	Band           Band
	RangeLow       int
	RangeHigh      int
	SampleQuestion string
	ExampleAnswer  string
	Hints          []string
}

// Indicator is an atomic behavioral signal scored 1-10.
type Indicator struct {
	ID       int
	Name     string
	PillarID string
	Criteria []ScoringCriterion
}

// Pillar is a weighted grouping of indicators.
type Pillar struct {
	ID           string
	Name         string
	Weight       float64
	IndicatorIDs []int
}

// ObjectionMapping ties an indicator to an objection archetype.
type ObjectionMapping struct {
	IndicatorID int
	ObjectionID string
}

// HotButtonFlag marks an indicator as an intensity amplifier for the
// psychological dial mapper.
type HotButtonFlag struct {
	IndicatorID int
	IsHotButton bool
}

// Taxonomy is the full loaded definition set. Read-only after Load.
type Taxonomy struct {
	Pillars           []Pillar
	Indicators        []Indicator
	ObjectionMappings []ObjectionMapping
	HotButtons        []HotButtonFlag
}

// PillarByID returns the pillar with the given id.
func (t *Taxonomy) PillarByID(id string) (Pillar, bool) {
	for _, p := range t.Pillars {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}

// IndicatorByID returns the indicator with the given id.
func (t *Taxonomy) IndicatorByID(id int) (Indicator, bool) {
	for _, in := range t.Indicators {
		if in.ID == id {
			return in, true
		}
	}
	return Indicator{}, false
}

// IsHotButton reports whether the indicator is flagged as a hot button.
func (t *Taxonomy) IsHotButton(indicatorID int) bool {
	for _, hb := range t.HotButtons {
		if hb.IndicatorID == indicatorID && hb.IsHotButton {
			return true
		}
	}
	return false
}

// Validate enforces the structural invariants: globally unique indicator ids,
// every indicator owned by exactly one existing pillar.
func (t *Taxonomy) Validate() error {
	if len(t.Pillars) == 0 {
		return fmt.Errorf("taxonomy has no pillars")
	}
	if len(t.Indicators) == 0 {
		return fmt.Errorf("taxonomy has no indicators")
	}

	pillarIDs := make(map[string]bool, len(t.Pillars))
	for _, p := range t.Pillars {
		if pillarIDs[p.ID] {
			return fmt.Errorf("duplicate pillar id %q", p.ID)
		}
		pillarIDs[p.ID] = true
	}

	seen := make(map[int]bool, len(t.Indicators))
	for _, in := range t.Indicators {
		if seen[in.ID] {
			return fmt.Errorf("duplicate indicator id %d", in.ID)
		}
		seen[in.ID] = true
		if !pillarIDs[in.PillarID] {
			return fmt.Errorf("indicator %d references unknown pillar %q", in.ID, in.PillarID)
		}
	}
	return nil
}
