package models

import (
	"encoding/json"
	"fmt"
)

// IndicatorScore is the scored result for one behavioral indicator.
// Recomputed wholesale from the full transcript on every pass.
type IndicatorScore struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	PillarID string   `json:"pillarId"`
	Score    int      `json:"score"` // 1..10
	Evidence []string `json:"evidence,omitempty"`
}

// PillarScore is the aggregated score for one pillar.
type PillarScore struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	AverageScore  float64          `json:"averageScore"` // post-inversion for price sensitivity
	WeightedScore float64          `json:"weightedScore"`
	Weight        float64          `json:"weight"`
	Indicators    []IndicatorScore `json:"indicators"`
}

// TruthPenalty records one rule evaluation in the truth index.
type TruthPenalty struct {
	RuleID      string `json:"ruleId"`
	Description string `json:"description"`
	Penalty     int    `json:"penalty"`
	Triggered   bool   `json:"triggered"`
}

// TruthIndexResult is the 0-100 authenticity assessment.
type TruthIndexResult struct {
	Score       int            `json:"score"`
	Penalties   []TruthPenalty `json:"penalties"`
	Explanation string         `json:"explanation"`
}

// ReadinessZone bands the final lubometer score.
type ReadinessZone int

const (
	ZoneNoGo ReadinessZone = iota
	ZoneRed
	ZoneYellow
	ZoneGreen
)

// String returns the wire representation of the zone.
func (z ReadinessZone) String() string {
	switch z {
	case ZoneGreen:
		return "green"
	case ZoneYellow:
		return "yellow"
	case ZoneRed:
		return "red"
	case ZoneNoGo:
		return "no-go"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(z))
	}
}

// MarshalJSON encodes the zone as its wire string.
func (z ReadinessZone) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// UnmarshalJSON decodes the zone from its wire string.
func (z *ReadinessZone) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "green":
		*z = ZoneGreen
	case "yellow":
		*z = ZoneYellow
	case "red":
		*z = ZoneRed
	case "no-go":
		*z = ZoneNoGo
	default:
		return fmt.Errorf("unknown readiness zone %q", s)
	}
	return nil
}

// PriceTier is the readiness estimate for one price point.
type PriceTier struct {
	Price     int    `json:"price"`
	Readiness int    `json:"readiness"` // 0..100
	Label     string `json:"label"`
}

// LubometerResult is the composite readiness score.
type LubometerResult struct {
	RawScore   float64       `json:"rawScore"`
	Penalties  int           `json:"penalties"`
	FinalScore float64       `json:"finalScore"`
	Zone       ReadinessZone `json:"readinessZone"`
	PriceTiers []PriceTier   `json:"priceTiers"`
}

// CloseBlockerResult says whether a close attempt is vetoed by a hard rule.
type CloseBlockerResult struct {
	Closeable bool   `json:"closeable"`
	Reason    string `json:"reason,omitempty"`
}

// Objection is one ranked likely objection.
type Objection struct {
	ID                  string `json:"id"`
	Text                string `json:"text"`
	Probability         int    `json:"probability"` // 0..100
	RelatedIndicatorIDs []int  `json:"relatedIndicatorIds"`
}

// ScriptStep is one line of a rebuttal script.
type ScriptStep struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	PauseMs int    `json:"pauseMs,omitempty"`
	Note    string `json:"note,omitempty"`
}

// ObjectionScript is a rebuttal dialogue template, already parameterized
// with the customer name.
type ObjectionScript struct {
	Title       string       `json:"title"`
	DialTrigger string       `json:"dialTrigger"`
	TruthLevel  int          `json:"truthLevel"`
	MoneyStyle  string       `json:"moneyStyle"`
	Steps       []ScriptStep `json:"steps"`
}

// PsychologicalDial is one ranked behavioral pattern.
type PsychologicalDial struct {
	Name      string `json:"name"`
	Intensity int    `json:"intensity"` // 0..100
	Color     string `json:"color"`
}

// RedFlagSeverity grades a red flag.
type RedFlagSeverity int

const (
	SeverityLow RedFlagSeverity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the wire representation of the severity.
func (s RedFlagSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its wire string.
func (s RedFlagSeverity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// RedFlag is a detector finding merged into the composite result.
type RedFlag struct {
	Text     string          `json:"text"`
	Severity RedFlagSeverity `json:"severity"`
}

// AnalysisResult is the composite output of one analysis pass.
// A value object: recomputed wholesale each pass, never mutated after
// construction.
type AnalysisResult struct {
	Timestamp          int64               `json:"timestamp"`
	ConversationLength int                 `json:"conversationLength"`
	Indicators         []IndicatorScore    `json:"indicators"`
	Pillars            []PillarScore       `json:"pillars"`
	TruthIndex         TruthIndexResult    `json:"truthIndex"`
	Lubometer          LubometerResult     `json:"lubometer"`
	Objections         []Objection         `json:"objections"`
	PsychologicalDials []PsychologicalDial `json:"psychologicalDials"`
	RedFlags           []RedFlag           `json:"redFlags"`
}
