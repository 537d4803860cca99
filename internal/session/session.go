package session

import (
	"sync"
	"sync/atomic"
	"time"

	"ai-call-readiness-service/internal/models"
)

// Session holds everything mutable about one call: the append-only
// transcript, the lifecycle state, and the latest analysis snapshot.
// All analysis caches are keyed by the session that owns them - nothing here
// is shared across calls.
type Session struct {
	ID           string
	CustomerName string
	CreatedAt    time.Time

	lifecycle *Lifecycle
	seq       uint64

	mu         sync.RWMutex
	transcript models.Transcript
	latest     *models.AnalysisResult
	lastSeen   time.Time
}

func newSession(id, customerName string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		CustomerName: customerName,
		CreatedAt:    now,
		lifecycle:    NewLifecycle(),
		lastSeen:     now,
	}
}

// Append adds a chunk to the transcript and returns its sequence number
// (1-based). Fails when the session is no longer live.
func (s *Session) Append(chunk models.TranscriptChunk) (uint64, error) {
	if err := s.lifecycle.Append(); err != nil {
		return 0, err
	}
	seq := atomic.AddUint64(&s.seq, 1)

	s.mu.Lock()
	s.transcript = append(s.transcript, chunk)
	s.lastSeen = time.Now().UTC()
	s.mu.Unlock()

	return seq, nil
}

// LastSeen returns when the session last received a chunk.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Transcript returns a copy of the transcript-to-date. The copy keeps the
// session's slice safe from callers while an analysis pass reads it.
func (s *Session) Transcript() models.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Transcript, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ChunkCount returns the number of appended chunks.
func (s *Session) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// SetLatest stores the most recent analysis snapshot for this session.
func (s *Session) SetLatest(result *models.AnalysisResult) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()
}

// Latest returns the most recent analysis snapshot, or nil if none yet.
func (s *Session) Latest() *models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.lifecycle.State()
}

// End freezes the session. The transcript and latest analysis stay readable.
func (s *Session) End() error {
	return s.lifecycle.End()
}

// Abandon drops the session. Returns true if it was live until now.
func (s *Session) Abandon() bool {
	return s.lifecycle.Abandon()
}
