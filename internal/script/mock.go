package script

import (
	"context"
	"fmt"
	"time"
)

type mockGenerator struct{}

// NewMockGenerator returns a deterministic backend for local development
// and tests. No network calls, no API keys.
func NewMockGenerator() Generator { return &mockGenerator{} }

func (m *mockGenerator) Generate(ctx context.Context, req Request) ([]Turn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(20 * time.Millisecond):
	}
	title := req.Title
	if title == "" {
		title = "today's article"
	}
	return []Turn{
		{Speaker: SpeakerHost, Text: fmt.Sprintf("Welcome back! Today we're looking at %s.", title)},
		{Speaker: SpeakerGuest, Text: "Thanks for having me. There's a lot to unpack here."},
		{Speaker: SpeakerHost, Text: "Let's start with the main point and work through it together."},
		{Speaker: SpeakerGuest, Text: "Sounds good. The short version is that the details really matter."},
		{Speaker: SpeakerHost, Text: "That's a wrap for today. Thanks for listening!"},
	}, nil
}
