package tts

import (
	"context"
	"fmt"
)

// SynthRequest contains parameters for one synthesis call.
type SynthRequest struct {
	Text      string
	VoiceID   string
	PreferWAV bool
}

// Synthesizer is the contract for producing audio for a single turn. One
// call maps to exactly one provider request; retry policy lives in the
// caller-facing wrapper, not in implementations.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthRequest) ([]byte, error)
}

// Voice is one selectable entry from the provider's voice catalog.
type Voice struct {
	ID       string
	Name     string
	Category string
}

// Catalog exposes the read-through voice endpoints.
type Catalog interface {
	Voices(ctx context.Context) ([]Voice, error)
	Preview(ctx context.Context, voiceID, text string) ([]byte, error)
}

// RequestError reports a failed provider call: a non-2xx status, a body
// too short to hold any audio container, or a transport failure that
// exhausted its retries (StatusCode 0). The body preview is capped so
// errors stay loggable.
type RequestError struct {
	StatusCode  int
	BodyPreview string
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("tts request failed: %s", e.BodyPreview)
	}
	return fmt.Sprintf("tts request failed (status %d): %s", e.StatusCode, e.BodyPreview)
}
