// Package app holds process-wide wiring for the service.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ai-call-readiness-service/internal/analysis/pipeline"
	"ai-call-readiness-service/internal/analysis/redflag"
	"ai-call-readiness-service/internal/config"
	"ai-call-readiness-service/internal/observability/logging"
	"ai-call-readiness-service/internal/observability/metrics"
	"ai-call-readiness-service/internal/session"
	"ai-call-readiness-service/internal/taxonomy"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration

	Taxonomy *taxonomy.CachedSource
	Sessions *session.Manager
	Analyzer *pipeline.Analyzer

	reaperStop chan struct{}
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Configuration) *Application {
	logging.Init(logging.Config{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
	})

	var src taxonomy.Source = taxonomy.EmbeddedSource{}
	if cfg.Taxonomy.Path != "" {
		src = &taxonomy.FileSource{Path: cfg.Taxonomy.Path}
	}
	cached := taxonomy.NewCached(src)

	a := &Application{
		Logger:     logging.WithComponent("application"),
		Cfg:        cfg,
		Taxonomy:   cached,
		Sessions:   session.NewManager(),
		Analyzer:   pipeline.New(cached, redflag.NewRuleBased()),
		reaperStop: make(chan struct{}),
	}

	a.Logger.Info().
		Str("logLevel", cfg.Observability.LogLevel).
		Str("taxonomyPath", cfg.Taxonomy.Path).
		Msg("Call readiness service application created")
	return a
}

// Start loads the taxonomy and launches the session reaper. The taxonomy must
// be loadable before serving traffic: analysis with an empty taxonomy is
// worse than refusing to start.
func (a *Application) Start(ctx context.Context) error {
	a.StartupTime = time.Now().UTC()

	if _, err := a.Taxonomy.Load(ctx); err != nil {
		return err
	}

	go a.reapLoop()

	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Call readiness service starting")
	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	close(a.reaperStop)
	a.Logger.Info().Msg("Call readiness service shutting down")
}

// reapLoop abandons sessions that went quiet for longer than the configured
// idle timeout.
func (a *Application) reapLoop() {
	timeout := a.Cfg.Analysis.SessionIdleTimeout
	if timeout <= 0 {
		return
	}

	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-a.reaperStop:
			return
		case <-ticker.C:
			for _, id := range a.Sessions.ReapIdle(timeout) {
				metrics.DefaultMetrics.RecordSessionAbandoned("idle_timeout")
				a.Logger.Warn().Str("sessionId", id).Msg("Session abandoned after idle timeout")
			}
		}
	}
}
