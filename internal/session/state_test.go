package session

import (
	"errors"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateLive, "LIVE"},
		{StateEnded, "ENDED"},
		{StateAbandoned, "ABANDONED"},
		{State(42), "UNKNOWN(42)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestStateIsTerminal(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateLive, false},
		{StateEnded, true},
		{StateAbandoned, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.want {
			t.Errorf("%v.IsTerminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_StartsLive(t *testing.T) {
	l := NewLifecycle()
	if l.State() != StateLive {
		t.Errorf("new lifecycle should be LIVE, got %v", l.State())
	}
	if !l.CanAppend() {
		t.Error("live lifecycle should accept appends")
	}
	if err := l.Append(); err != nil {
		t.Errorf("unexpected append error: %v", err)
	}
}

func TestLifecycle_AppendAfterEnd(t *testing.T) {
	l := NewLifecycle()
	if err := l.End(); err != nil {
		t.Fatalf("unexpected end error: %v", err)
	}

	if l.CanAppend() {
		t.Error("ended lifecycle must not accept appends")
	}
	if err := l.Append(); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("expected ErrSessionEnded, got %v", err)
	}
}

func TestLifecycle_AppendAfterAbandon(t *testing.T) {
	l := NewLifecycle()
	if !l.Abandon() {
		t.Fatal("expected abandon to succeed from LIVE")
	}

	if err := l.Append(); !errors.Is(err, ErrSessionAbandoned) {
		t.Errorf("expected ErrSessionAbandoned, got %v", err)
	}
}

func TestLifecycle_EndIsIdempotent(t *testing.T) {
	l := NewLifecycle()
	if err := l.End(); err != nil {
		t.Fatalf("first end: %v", err)
	}
	if err := l.End(); err != nil {
		t.Errorf("second end should be a no-op, got %v", err)
	}
	if l.State() != StateEnded {
		t.Errorf("expected ENDED, got %v", l.State())
	}
}

func TestLifecycle_EndAfterAbandon(t *testing.T) {
	l := NewLifecycle()
	l.Abandon()

	if err := l.End(); !errors.Is(err, ErrSessionAbandoned) {
		t.Errorf("expected ErrSessionAbandoned, got %v", err)
	}
	if l.State() != StateAbandoned {
		t.Errorf("abandoned session must stay ABANDONED, got %v", l.State())
	}
}

func TestLifecycle_AbandonAfterEnd(t *testing.T) {
	l := NewLifecycle()
	if err := l.End(); err != nil {
		t.Fatal(err)
	}

	if l.Abandon() {
		t.Error("abandon from ENDED must report false")
	}
	if l.State() != StateEnded {
		t.Errorf("ended session must stay ENDED, got %v", l.State())
	}
}
