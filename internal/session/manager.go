package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Manager owns all live sessions in the process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session for the named customer.
func (m *Manager) Create(customerName string) *Session {
	s := newSession(uuid.NewString(), customerName)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove drops a session from the manager. The session itself is left in
// whatever lifecycle state it is in.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// ReapIdle abandons and removes live sessions that have not received a chunk
// within the timeout. Returns the ids of reaped sessions.
func (m *Manager) ReapIdle(timeout time.Duration) []string {
	cutoff := time.Now().UTC().Add(-timeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	var reaped []string
	for id, s := range m.sessions {
		if s.State() != StateLive || s.LastSeen().After(cutoff) {
			continue
		}
		if s.Abandon() {
			delete(m.sessions, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// LiveCount returns the number of sessions currently in LIVE state.
func (m *Manager) LiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.sessions {
		if s.State() == StateLive {
			n++
		}
	}
	return n
}
