package script

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"
)

// ParseResponse validates a raw model response and normalizes it into
// turns. Models wrap JSON in markdown fences often enough that the fences
// are stripped before parsing, and speaker labels are normalized so that
// either role names or display names are accepted.
func ParseResponse(raw string, req Request) ([]Turn, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty script response")
	}

	var parser fastjson.Parser
	root, err := parser.Parse(cleaned)
	if err != nil {
		return nil, fmt.Errorf("script response is not valid JSON: %w", err)
	}

	items := root.GetArray("script")
	if items == nil {
		// Some models answer with a bare array instead of the wrapper object.
		items = root.GetArray()
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("script response contains no turns")
	}

	turns := make([]Turn, 0, len(items))
	for i, item := range items {
		speakerRaw := strings.TrimSpace(string(item.GetStringBytes("speaker")))
		text := strings.TrimSpace(string(item.GetStringBytes("text")))

		speaker, ok := normalizeSpeaker(speakerRaw, req)
		if !ok {
			return nil, fmt.Errorf("turn %d: unknown speaker %q", i+1, speakerRaw)
		}
		if text == "" {
			return nil, fmt.Errorf("turn %d: empty text", i+1)
		}
		turns = append(turns, Turn{Speaker: speaker, Text: text})
	}
	return turns, nil
}

func normalizeSpeaker(raw string, req Request) (Speaker, bool) {
	switch {
	case strings.EqualFold(raw, string(SpeakerHost)),
		req.HostName != "" && strings.EqualFold(raw, req.HostName):
		return SpeakerHost, true
	case strings.EqualFold(raw, string(SpeakerGuest)),
		req.GuestName != "" && strings.EqualFold(raw, req.GuestName):
		return SpeakerGuest, true
	}
	return "", false
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		if nl := strings.IndexByte(cleaned, '\n'); nl != -1 {
			cleaned = cleaned[nl+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
