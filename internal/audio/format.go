// Package audio implements the minimal PCM/WAV handling the episode
// assembler needs: decoding provider WAV responses, generating silence,
// validating MP3 fallback buffers and writing the final WAV container.
// It intentionally understands only linear PCM; anything else is a
// parse failure.
package audio

import "fmt"

// Format describes the PCM layout of a decoded WAV payload.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameSize returns the byte size of one sample instant across all channels.
func (f Format) FrameSize() int {
	return f.Channels * f.BitDepth / 8
}

// ByteRate returns the number of payload bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.FrameSize()
}

// Validate rejects formats the writer and silence generator cannot express.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}
	if f.Channels < 1 {
		return fmt.Errorf("channel count must be >= 1, got %d", f.Channels)
	}
	switch f.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d", f.BitDepth)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitDepth)
}
