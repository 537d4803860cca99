// Package pipeline orchestrates the analysis stages in fixed order:
// indicator scoring, pillar aggregation, truth index, lubometer, objection
// ranking, dial mapping, red-flag detection. Data flows strictly forward;
// no stage re-reads a later stage's output.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ai-call-readiness-service/internal/analysis/dials"
	"ai-call-readiness-service/internal/analysis/lubometer"
	"ai-call-readiness-service/internal/analysis/objection"
	"ai-call-readiness-service/internal/analysis/pillar"
	"ai-call-readiness-service/internal/analysis/redflag"
	"ai-call-readiness-service/internal/analysis/scorer"
	"ai-call-readiness-service/internal/analysis/truthindex"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// minChunks is the conversation length below which AnalyzeIncremental
// returns the baseline result instead of running the pipeline.
const minChunks = 3

// Analyzer runs the full analysis pipeline. It holds no per-session state:
// every call recomputes from the transcript it is given, so one Analyzer is
// safe to share across concurrent sessions.
type Analyzer struct {
	source   taxonomy.Source
	detector redflag.Detector
	now      func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New builds an Analyzer over the given taxonomy source and red-flag
// detector.
func New(source taxonomy.Source, detector redflag.Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:   source,
		detector: detector,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs every stage against the full transcript-to-date and
// assembles the composite result. Deterministic from its inputs apart from
// the timestamp.
func (a *Analyzer) Analyze(ctx context.Context, transcript models.Transcript) (*models.AnalysisResult, error) {
	tax, err := a.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	start := a.now()
	text := scorer.ConversationText(transcript)

	indicators := scorer.Score(tax.Indicators, text)
	pillars := pillar.Aggregate(tax.Pillars, indicators)
	truth := truthindex.Evaluate(pillars, indicators)
	lubo := lubometer.Calculate(pillars, truth)
	objections := objection.Rank(indicators)
	dialScores := dials.Map(indicators, tax)

	var flags []models.RedFlag
	if a.detector != nil {
		flags = a.detector.Detect(indicators, pillars, truth)
	}

	result := &models.AnalysisResult{
		Timestamp:          start.UnixMilli(),
		ConversationLength: len(transcript),
		Indicators:         indicators,
		Pillars:            pillars,
		TruthIndex:         truth,
		Lubometer:          lubo,
		Objections:         objections,
		PsychologicalDials: dialScores,
		RedFlags:           flags,
	}

	log.Debug().
		Int("chunks", len(transcript)).
		Float64("finalScore", lubo.FinalScore).
		Str("zone", lubo.Zone.String()).
		Int("truthIndex", truth.Score).
		Int("redFlags", len(flags)).
		Msg("Analysis pass completed")

	return result, nil
}

// AnalyzeIncremental returns the fixed baseline result for conversations
// shorter than minChunks, otherwise delegates to the full pipeline.
func (a *Analyzer) AnalyzeIncremental(ctx context.Context, transcript models.Transcript) (*models.AnalysisResult, error) {
	if len(transcript) < minChunks {
		return Baseline(a.now()), nil
	}
	return a.Analyze(ctx, transcript)
}

// CheckCloseBlockers exposes the close-eligibility gate for the current
// pillar snapshot, separate from the main calculation.
func (a *Analyzer) CheckCloseBlockers(pillars []models.PillarScore) models.CloseBlockerResult {
	return lubometer.CheckCloseBlockers(pillars)
}

// Baseline is the documented result for a conversation too short to analyze.
func Baseline(now time.Time) *models.AnalysisResult {
	return &models.AnalysisResult{
		Timestamp:          now.UnixMilli(),
		ConversationLength: 0,
		Indicators:         []models.IndicatorScore{},
		Pillars:            []models.PillarScore{},
		TruthIndex: models.TruthIndexResult{
			Score:       100,
			Penalties:   []models.TruthPenalty{},
			Explanation: truthindex.PendingExplanation,
		},
		Lubometer: models.LubometerResult{
			RawScore:   0,
			Penalties:  0,
			FinalScore: 0,
			Zone:       models.ZoneNoGo,
			PriceTiers: lubometer.BaselineTiers(),
		},
		Objections:         []models.Objection{},
		PsychologicalDials: []models.PsychologicalDial{},
		RedFlags:           []models.RedFlag{},
	}
}
