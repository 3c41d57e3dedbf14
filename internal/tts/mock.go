package tts

import (
	"context"
	"time"

	"github.com/podwavelabs/podwave-core/internal/audio"
)

type mockSynth struct {
	format     audio.Format
	durationMS int
}

// NewMockSynth produces silent audio without touching the network. Used
// when no provider credential is configured and in tests.
func NewMockSynth(sampleRate, channels int) Synthesizer {
	return &mockSynth{
		format:     audio.Format{SampleRate: sampleRate, Channels: channels, BitDepth: 16},
		durationMS: 250,
	}
}

func (m *mockSynth) Synthesize(ctx context.Context, req SynthRequest) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}
	if req.PreferWAV {
		return audio.EncodeWAV(audio.Silence(m.format, m.durationMS), m.format), nil
	}
	// A minimal fake MP3 frame, enough to satisfy signature checks.
	frame := make([]byte, audio.MinWAVSize)
	frame[0], frame[1] = 0xFF, 0xFB
	return frame, nil
}
