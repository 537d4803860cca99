// Package session provides per-call session state: the append-only
// transcript, the lifecycle state machine, and the latest analysis snapshot.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of a call session.
type State int

const (
	// StateLive - call in progress, chunks can be appended.
	StateLive State = iota
	// StateEnded - call finished normally; transcript is frozen but the
	// final analysis remains readable.
	StateEnded
	// StateAbandoned - session was dropped (client vanished, bad data).
	// Terminal; no final analysis is published for it.
	StateAbandoned
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLive:
		return "LIVE"
	case StateEnded:
		return "ENDED"
	case StateAbandoned:
		return "ABANDONED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// IsTerminal returns true if the state is terminal (ENDED or ABANDONED).
func (s State) IsTerminal() bool {
	return s == StateEnded || s == StateAbandoned
}

// Errors for invalid lifecycle operations.
var (
	ErrSessionEnded     = errors.New("session has ended")
	ErrSessionAbandoned = errors.New("session was abandoned")
)

// Lifecycle manages the state machine for a single session.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	LIVE → ENDED
//	  │
//	  └──→ ABANDONED
//
// Rules:
//   - LIVE: chunks can be appended (any number), session can end or be abandoned
//   - ENDED: transcript frozen, analysis readable, no further appends
//   - ABANDONED: terminal, nothing is readable or appendable
type Lifecycle struct {
	mu    sync.RWMutex
	state State
}

// NewLifecycle creates a session lifecycle in LIVE state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateLive}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// CanAppend returns true if a chunk can be appended.
func (l *Lifecycle) CanAppend() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateLive
}

// Append validates a chunk append against the current state.
func (l *Lifecycle) Append() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case StateLive:
		return nil
	case StateEnded:
		return ErrSessionEnded
	case StateAbandoned:
		return ErrSessionAbandoned
	default:
		return fmt.Errorf("unexpected state: %v", l.state)
	}
}

// End transitions the session to ENDED. Idempotent from LIVE or ENDED;
// returns ErrSessionAbandoned if the session was already abandoned.
func (l *Lifecycle) End() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateAbandoned {
		return ErrSessionAbandoned
	}
	l.state = StateEnded
	return nil
}

// Abandon transitions the session to ABANDONED.
// Returns true if the session was abandoned now, false if already terminal.
func (l *Lifecycle) Abandon() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateAbandoned
	return true
}
