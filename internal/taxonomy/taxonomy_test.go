package taxonomy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedSource_LoadsAndValidates(t *testing.T) {
	tax, err := EmbeddedSource{}.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tax.Validate(); err != nil {
		t.Fatalf("embedded taxonomy must validate: %v", err)
	}

	if len(tax.Pillars) != 6 {
		t.Errorf("expected 6 pillars, got %d", len(tax.Pillars))
	}
	if len(tax.Indicators) != 16 {
		t.Errorf("expected 16 indicators, got %d", len(tax.Indicators))
	}

	// Weights sum to 9.0 so raw scores top out around 90.
	sum := 0.0
	for _, p := range tax.Pillars {
		sum += p.Weight
	}
	if sum != 9.0 {
		t.Errorf("expected weights summing to 9.0, got %v", sum)
	}

	if _, ok := tax.PillarByID(PriceSensitivityPillarID); !ok {
		t.Error("price sensitivity pillar missing")
	}
	if !tax.IsHotButton(1) {
		t.Error("indicator 1 should be a hot button")
	}
	if tax.IsHotButton(2) {
		t.Error("indicator 2 should not be a hot button")
	}

	pain, ok := tax.IndicatorByID(1)
	if !ok {
		t.Fatal("indicator 1 missing")
	}
	if pain.PillarID != PillarPain {
		t.Errorf("indicator 1 should belong to pain, got %s", pain.PillarID)
	}
	if len(pain.Criteria) != 3 {
		t.Errorf("expected 3 criteria, got %d", len(pain.Criteria))
	}
	for _, c := range pain.Criteria {
		if c.Band != BandLow && c.Band != BandMid && c.Band != BandHigh {
			t.Errorf("unexpected band %q", c.Band)
		}
		if c.SampleQuestion == "" || c.ExampleAnswer == "" {
			t.Error("criterion missing question or answer text")
		}
	}
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	doc := `
pillars:
  - id: pain
    name: Pain
    weight: 2.0
    indicators: [1]
indicators:
  - id: 1
    name: Severity
    pillar: pain
    criteria:
      - band: high
        range: [7, 10]
        question: "how bad is it"
        answer: "really bad"
hotButtons:
  - indicator: 1
    hot: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := (&FileSource{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tax.Pillars) != 1 || tax.Pillars[0].Weight != 2.0 {
		t.Errorf("unexpected pillars: %+v", tax.Pillars)
	}
	if len(tax.Indicators) != 1 || tax.Indicators[0].Criteria[0].Band != BandHigh {
		t.Errorf("unexpected indicators: %+v", tax.Indicators)
	}
	if tax.Indicators[0].Criteria[0].RangeLow != 7 {
		t.Errorf("range not parsed: %+v", tax.Indicators[0].Criteria[0])
	}
	if !tax.IsHotButton(1) {
		t.Error("hot button not parsed")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := (&FileSource{Path: "/does/not/exist.yaml"}).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tax     Taxonomy
		wantErr bool
	}{
		{
			name: "valid",
			tax: Taxonomy{
				Pillars:    []Pillar{{ID: "pain"}},
				Indicators: []Indicator{{ID: 1, PillarID: "pain"}},
			},
		},
		{
			name:    "no pillars",
			tax:     Taxonomy{Indicators: []Indicator{{ID: 1, PillarID: "pain"}}},
			wantErr: true,
		},
		{
			name:    "no indicators",
			tax:     Taxonomy{Pillars: []Pillar{{ID: "pain"}}},
			wantErr: true,
		},
		{
			name: "duplicate indicator id",
			tax: Taxonomy{
				Pillars:    []Pillar{{ID: "pain"}},
				Indicators: []Indicator{{ID: 1, PillarID: "pain"}, {ID: 1, PillarID: "pain"}},
			},
			wantErr: true,
		},
		{
			name: "unknown pillar reference",
			tax: Taxonomy{
				Pillars:    []Pillar{{ID: "pain"}},
				Indicators: []Indicator{{ID: 1, PillarID: "ghost"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate pillar id",
			tax: Taxonomy{
				Pillars:    []Pillar{{ID: "pain"}, {ID: "pain"}},
				Indicators: []Indicator{{ID: 1, PillarID: "pain"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tax.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBand(t *testing.T) {
	tests := []struct {
		in   string
		want Band
	}{
		{"low", BandLow},
		{"LOW", BandLow},
		{"Mid", BandMid},
		{"medium", BandMid},
		{" high ", BandHigh},
		{"extreme", Band("extreme")},
	}
	for _, tt := range tests {
		if got := ParseBand(tt.in); got != tt.want {
			t.Errorf("ParseBand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type countingSource struct {
	calls int
	fail  bool
}

func (c *countingSource) Load(context.Context) (*Taxonomy, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("backend down")
	}
	return &Taxonomy{
		Pillars:    []Pillar{{ID: "pain"}},
		Indicators: []Indicator{{ID: 1, PillarID: "pain"}},
	}, nil
}

func TestCachedSource_LoadsOnce(t *testing.T) {
	src := &countingSource{}
	cached := NewCached(src)

	first, err := cached.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the same cached taxonomy instance")
	}
	if src.calls != 1 {
		t.Errorf("expected exactly 1 backend call, got %d", src.calls)
	}
}

func TestCachedSource_FailureIsSticky(t *testing.T) {
	src := &countingSource{fail: true}
	cached := NewCached(src)

	if _, err := cached.Load(context.Background()); err == nil {
		t.Fatal("expected initialization error")
	}
	if _, err := cached.Load(context.Background()); err == nil {
		t.Fatal("expected cached initialization error on retry")
	}
	if src.calls != 1 {
		t.Errorf("failed load must not be retried, got %d calls", src.calls)
	}
}

func TestCachedSource_RejectsInvalidTaxonomy(t *testing.T) {
	cached := NewCached(invalidSource{})
	if _, err := cached.Load(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
}

type invalidSource struct{}

func (invalidSource) Load(context.Context) (*Taxonomy, error) {
	return &Taxonomy{}, nil // no pillars, no indicators
}
