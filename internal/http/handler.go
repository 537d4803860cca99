package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ai-call-readiness-service/internal/analysis/objection"
	"ai-call-readiness-service/internal/analysis/pipeline"
	"ai-call-readiness-service/internal/events"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/observability/metrics"
	"ai-call-readiness-service/internal/session"
)

// Handler carries the dependencies of the API endpoints.
type Handler struct {
	sessions  *session.Manager
	analyzer  *pipeline.Analyzer
	publisher *events.Publisher
	metrics   *metrics.Metrics
}

// NewHandler wires the API handler.
func NewHandler(sessions *session.Manager, analyzer *pipeline.Analyzer, publisher *events.Publisher) *Handler {
	return &Handler{
		sessions:  sessions,
		analyzer:  analyzer,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
	}
}

type createSessionRequest struct {
	CustomerName string `json:"customerName"`
}

type createSessionResponse struct {
	SessionID    string `json:"sessionId"`
	CustomerName string `json:"customerName,omitempty"`
}

// CreateSession starts a new call session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// Empty body is fine; the customer name is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	s := h.sessions.Create(req.CustomerName)
	h.metrics.RecordSessionCreated()

	log.Info().Str("sessionId", s.ID).Msg("Session created")
	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:    s.ID,
		CustomerName: s.CustomerName,
	})
}

type appendChunkRequest struct {
	Timestamp int64  `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

// AppendChunk appends a transcript chunk and returns the refreshed analysis.
func (h *Handler) AppendChunk(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req appendChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordChunkRejected("bad_json")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.metrics.RecordChunkRejected("empty_text")
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Timestamp == 0 {
		req.Timestamp = time.Now().UnixMilli()
	}

	chunk := models.TranscriptChunk{
		Timestamp: req.Timestamp,
		Speaker:   models.ParseSpeaker(req.Speaker),
		Text:      req.Text,
	}

	seq, err := s.Append(chunk)
	if err != nil {
		h.metrics.RecordChunkRejected("session_closed")
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.metrics.RecordChunk()

	start := time.Now()
	result, err := h.analyzer.AnalyzeIncremental(r.Context(), s.Transcript())
	if err != nil {
		log.Error().Err(err).Str("sessionId", s.ID).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	s.SetLatest(result)
	h.recordAnalysis(result, time.Since(start).Seconds())

	log.Debug().
		Str("sessionId", s.ID).
		Uint64("seq", seq).
		Int("chunks", result.ConversationLength).
		Msg("Chunk analyzed")

	if err := h.publisher.PublishAnalysis(r.Context(), s.ID, result); err != nil {
		log.Warn().Err(err).Str("sessionId", s.ID).Msg("Failed to publish analysis event")
	}
	for _, flag := range result.RedFlags {
		if flag.Severity != models.SeverityHigh {
			continue
		}
		if err := h.publisher.PublishAlert(r.Context(), s.ID, flag); err != nil {
			log.Warn().Err(err).Str("sessionId", s.ID).Msg("Failed to publish alert event")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// GetAnalysis returns the latest analysis snapshot, computing one on demand
// if no chunk has been appended since the session started.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if latest := s.Latest(); latest != nil {
		writeJSON(w, http.StatusOK, latest)
		return
	}

	result, err := h.analyzer.AnalyzeIncremental(r.Context(), s.Transcript())
	if err != nil {
		log.Error().Err(err).Str("sessionId", s.ID).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	s.SetLatest(result)
	writeJSON(w, http.StatusOK, result)
}

// GetCloseCheck runs the close-blocker gate against the latest analysis.
func (h *Handler) GetCloseCheck(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	latest := s.Latest()
	if latest == nil {
		writeError(w, http.StatusConflict, "no analysis available yet")
		return
	}
	writeJSON(w, http.StatusOK, h.analyzer.CheckCloseBlockers(latest.Pillars))
}

// GetObjectionScript returns the rebuttal script for an objection id.
// Only some objections have scripts; the rest return 404.
func (h *Handler) GetObjectionScript(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	objectionID := chi.URLParam(r, "objectionID")
	name := r.URL.Query().Get("customerName")
	if name == "" {
		name = s.CustomerName
	}
	if name == "" {
		name = "there"
	}

	script, found := objection.Script(objectionID, name)
	if !found {
		writeError(w, http.StatusNotFound, "no script for objection "+objectionID)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

// EndSession freezes the session. The final analysis stays readable.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := s.End(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.metrics.RecordSessionEnded()

	log.Info().Str("sessionId", s.ID).Int("chunks", s.ChunkCount()).Msg("Session ended")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return s, true
}

func (h *Handler) recordAnalysis(result *models.AnalysisResult, durationSeconds float64) {
	if result.ConversationLength == 0 {
		h.metrics.RecordBaseline()
		return
	}
	h.metrics.RecordAnalysis(result.Lubometer.Zone.String(), durationSeconds)
	for _, p := range result.TruthIndex.Penalties {
		if p.Triggered {
			h.metrics.RecordTruthRule(p.RuleID)
		}
	}
	for _, f := range result.RedFlags {
		h.metrics.RecordRedFlag(f.Severity.String())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
