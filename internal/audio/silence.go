package audio

import "math"

// Silence produces a zero-amplitude PCM buffer covering durationMS at the
// given format. Zero bytes are a valid silent sample at every supported
// bit depth because the package is restricted to linear PCM.
func Silence(format Format, durationMS int) []byte {
	if durationMS <= 0 {
		return []byte{}
	}
	frames := int(math.Round(float64(format.SampleRate) * float64(durationMS) / 1000.0))
	return make([]byte, frames*format.FrameSize())
}
