package taxonomy

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCriterion is the YAML shape of a scoring criterion.
type yamlCriterion struct {
	Band     string   `yaml:"band"`
	Range    []int    `yaml:"range"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Hints    []string `yaml:"hints"`
}

// yamlIndicator is the YAML shape of an indicator.
type yamlIndicator struct {
	ID       int             `yaml:"id"`
	Name     string          `yaml:"name"`
	Pillar   string          `yaml:"pillar"`
	Criteria []yamlCriterion `yaml:"criteria"`
}

// yamlPillar is the YAML shape of a pillar.
type yamlPillar struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Weight     float64 `yaml:"weight"`
	Indicators []int   `yaml:"indicators"`
}

// yamlDoc is the top-level YAML taxonomy document.
type yamlDoc struct {
	Pillars    []yamlPillar    `yaml:"pillars"`
	Indicators []yamlIndicator `yaml:"indicators"`
	HotButtons []struct {
		Indicator int  `yaml:"indicator"`
		Hot       bool `yaml:"hot"`
	} `yaml:"hotButtons"`
	ObjectionMappings []struct {
		Indicator int    `yaml:"indicator"`
		Objection string `yaml:"objection"`
	} `yaml:"objectionMappings"`
}

func (d *yamlDoc) toTaxonomy() *Taxonomy {
	tax := &Taxonomy{}
	for _, p := range d.Pillars {
		tax.Pillars = append(tax.Pillars, Pillar{
			ID:           p.ID,
			Name:         p.Name,
			Weight:       p.Weight,
			IndicatorIDs: p.Indicators,
		})
	}
	for _, in := range d.Indicators {
		ind := Indicator{
			ID:       in.ID,
			Name:     in.Name,
			PillarID: in.Pillar,
		}
		for _, c := range in.Criteria {
			crit := ScoringCriterion{
				Band:           ParseBand(c.Band),
				SampleQuestion: c.Question,
				ExampleAnswer:  c.Answer,
				Hints:          c.Hints,
			}
			if len(c.Range) == 2 {
				crit.RangeLow, crit.RangeHigh = c.Range[0], c.Range[1]
			}
			ind.Criteria = append(ind.Criteria, crit)
		}
		tax.Indicators = append(tax.Indicators, ind)
	}
	for _, hb := range d.HotButtons {
		tax.HotButtons = append(tax.HotButtons, HotButtonFlag{IndicatorID: hb.Indicator, IsHotButton: hb.Hot})
	}
	for _, om := range d.ObjectionMappings {
		tax.ObjectionMappings = append(tax.ObjectionMappings, ObjectionMapping{IndicatorID: om.Indicator, ObjectionID: om.Objection})
	}
	return tax
}

// FileSource loads a taxonomy from a YAML file on disk.
type FileSource struct {
	Path string
}

// Load reads and parses the YAML taxonomy file.
func (f *FileSource) Load(_ context.Context) (*Taxonomy, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	return parseYAML(raw)
}

func parseYAML(raw []byte) (*Taxonomy, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}
	return doc.toTaxonomy(), nil
}
