package audio

import "bytes"

// MP3 buffers either open with an ID3v2 tag or directly with an MPEG
// audio frame. ElevenLabs emits MPEG-1/2 Layer III, so only those frame
// sync variants are accepted.
var mp3FrameSyncs = [][]byte{
	{0xFF, 0xFB},
	{0xFF, 0xF3},
	{0xFF, 0xF2},
}

var id3Magic = []byte("ID3")

// LooksLikeMP3 reports whether a buffer plausibly starts an MP3 stream.
// This is an acceptance test for the fallback concatenation path only;
// it never extracts samples.
func LooksLikeMP3(buf []byte) bool {
	if bytes.HasPrefix(buf, id3Magic) {
		return true
	}
	for _, sync := range mp3FrameSyncs {
		if bytes.HasPrefix(buf, sync) {
			return true
		}
	}
	return false
}
