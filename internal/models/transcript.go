// Package models defines the data structures shared across the analysis pipeline.
package models

import "fmt"

// Speaker identifies who produced a transcript chunk.
type Speaker int

const (
	// SpeakerUnknown - attribution could not be determined upstream.
	SpeakerUnknown Speaker = iota
	// SpeakerCloser - the sales rep running the call.
	SpeakerCloser
	// SpeakerProspect - the person being sold to.
	SpeakerProspect
)

// String returns the wire representation of the speaker.
func (s Speaker) String() string {
	switch s {
	case SpeakerCloser:
		return "closer"
	case SpeakerProspect:
		return "prospect"
	case SpeakerUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ParseSpeaker maps a wire string onto a Speaker. Anything unrecognized
// collapses to SpeakerUnknown rather than failing the chunk.
func ParseSpeaker(s string) Speaker {
	switch s {
	case "closer":
		return SpeakerCloser
	case "prospect":
		return SpeakerProspect
	default:
		return SpeakerUnknown
	}
}

// MarshalJSON encodes the speaker as its wire string.
func (s Speaker) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a wire string into a Speaker.
func (s *Speaker) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	*s = ParseSpeaker(raw)
	return nil
}

// TranscriptChunk is one already-transcribed utterance in a call.
// Chunks are append-only within a session and never mutated once appended.
type TranscriptChunk struct {
	Timestamp int64   `json:"timestamp"`
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
}

// Transcript is the ordered conversation to date.
type Transcript []TranscriptChunk
