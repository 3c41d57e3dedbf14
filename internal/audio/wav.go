package audio

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// MinWAVSize is the smallest buffer that can hold a RIFF/WAVE header with
// a fmt and a data chunk. Provider responses shorter than this are never
// valid WAV files.
const MinWAVSize = 44

const headerPreviewLen = 16

// ParseError reports why a buffer could not be decoded as PCM WAV. The
// header preview carries the first bytes hex-encoded so failures stay
// diagnosable without re-fetching the response.
type ParseError struct {
	Reason        string
	HeaderPreview string
}

func (e *ParseError) Error() string {
	if e.HeaderPreview == "" {
		return fmt.Sprintf("wav parse: %s", e.Reason)
	}
	return fmt.Sprintf("wav parse: %s (header %s)", e.Reason, e.HeaderPreview)
}

func parseErr(buf []byte, format string, args ...any) *ParseError {
	n := len(buf)
	if n > headerPreviewLen {
		n = headerPreviewLen
	}
	return &ParseError{
		Reason:        fmt.Sprintf(format, args...),
		HeaderPreview: hex.EncodeToString(buf[:n]),
	}
}

// DecodeWAV extracts the raw PCM payload and its format from a minimal
// RIFF/WAVE buffer. Sub-chunks are scanned sequentially by tag and
// declared length; the data chunk is not assumed to sit at a fixed
// offset because providers insert metadata chunks before it.
func DecodeWAV(buf []byte) ([]byte, Format, error) {
	if len(buf) < MinWAVSize {
		return nil, Format{}, parseErr(buf, "buffer too short (%d bytes)", len(buf))
	}
	if !bytes.Equal(buf[0:4], []byte("RIFF")) {
		return nil, Format{}, parseErr(buf, "missing RIFF tag")
	}
	if !bytes.Equal(buf[8:12], []byte("WAVE")) {
		return nil, Format{}, parseErr(buf, "missing WAVE form tag")
	}

	var (
		format    Format
		gotFormat bool
		payload   []byte
		gotData   bool
	)

	offset := 12
	for offset+8 <= len(buf) {
		tag := buf[offset : offset+4]
		size := int(binary.LittleEndian.Uint32(buf[offset+4 : offset+8]))
		body := offset + 8
		if size < 0 || body+size > len(buf) {
			return nil, Format{}, parseErr(buf, "chunk %q overruns buffer", tag)
		}

		switch string(tag) {
		case "fmt ":
			if size < 16 {
				return nil, Format{}, parseErr(buf, "fmt chunk too short (%d bytes)", size)
			}
			audioFormat := binary.LittleEndian.Uint16(buf[body : body+2])
			if audioFormat != 1 {
				return nil, Format{}, parseErr(buf, "non-PCM audio format %d", audioFormat)
			}
			format = Format{
				Channels:   int(binary.LittleEndian.Uint16(buf[body+2 : body+4])),
				SampleRate: int(binary.LittleEndian.Uint32(buf[body+4 : body+8])),
				BitDepth:   int(binary.LittleEndian.Uint16(buf[body+14 : body+16])),
			}
			gotFormat = true
		case "data":
			payload = buf[body : body+size]
			gotData = true
		}
		if gotFormat && gotData {
			break
		}
		// RIFF chunks are word aligned.
		offset = body + size + (size & 1)
	}

	if !gotFormat {
		return nil, Format{}, parseErr(buf, "no fmt chunk found")
	}
	if !gotData {
		return nil, Format{}, parseErr(buf, "no data chunk found")
	}
	if err := format.Validate(); err != nil {
		return nil, Format{}, parseErr(buf, "invalid format: %v", err)
	}
	return payload, format, nil
}

// EncodeWAV serializes a PCM payload into a minimal 44-byte-header WAV
// buffer. No optional chunks or metadata tags are written, so output for
// a given payload and format is byte-for-byte deterministic.
func EncodeWAV(payload []byte, format Format) []byte {
	var out bytes.Buffer
	out.Grow(MinWAVSize + len(payload))

	dataSize := uint32(len(payload))
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36)+dataSize)
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // linear PCM
	binary.Write(&out, binary.LittleEndian, uint16(format.Channels))
	binary.Write(&out, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(&out, binary.LittleEndian, uint32(format.ByteRate()))
	binary.Write(&out, binary.LittleEndian, uint16(format.FrameSize()))
	binary.Write(&out, binary.LittleEndian, uint16(format.BitDepth))

	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, dataSize)
	out.Write(payload)

	return out.Bytes()
}
