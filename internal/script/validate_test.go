package script

import (
	"context"
	"strings"
	"testing"
)

func testRequest() Request {
	return Request{HostName: "Alex", GuestName: "Sarah", TargetTurns: 10}
}

func TestParseResponse(t *testing.T) {
	raw := `{"script": [
		{"speaker": "host", "text": "Welcome to the show."},
		{"speaker": "guest", "text": "Glad to be here."}
	]}`
	turns, err := ParseResponse(raw, testRequest())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Speaker != SpeakerHost || turns[1].Speaker != SpeakerGuest {
		t.Fatalf("unexpected speakers %+v", turns)
	}
}

func TestParseResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"script\": [{\"speaker\": \"host\", \"text\": \"Hi.\"}]}\n```"
	turns, err := ParseResponse(raw, testRequest())
	if err != nil {
		t.Fatalf("parse fenced response: %v", err)
	}
	if len(turns) != 1 || turns[0].Text != "Hi." {
		t.Fatalf("unexpected turns %+v", turns)
	}
}

func TestParseResponseNormalizesDisplayNames(t *testing.T) {
	raw := `{"script": [
		{"speaker": "Alex", "text": "Let's dig in."},
		{"speaker": "SARAH", "text": "Right behind you."}
	]}`
	turns, err := ParseResponse(raw, testRequest())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if turns[0].Speaker != SpeakerHost {
		t.Fatalf("expected host for Alex, got %q", turns[0].Speaker)
	}
	if turns[1].Speaker != SpeakerGuest {
		t.Fatalf("expected guest for SARAH, got %q", turns[1].Speaker)
	}
}

func TestParseResponseAcceptsBareArray(t *testing.T) {
	raw := `[{"speaker": "host", "text": "Solo intro."}]`
	turns, err := ParseResponse(raw, testRequest())
	if err != nil {
		t.Fatalf("parse bare array: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
}

func TestParseResponseFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"not json", "sorry, I cannot do that"},
		{"no turns", `{"script": []}`},
		{"unknown speaker", `{"script": [{"speaker": "narrator", "text": "Hello."}]}`},
		{"empty text", `{"script": [{"speaker": "host", "text": "  "}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseResponse(tc.raw, testRequest()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPromptsCarryContract(t *testing.T) {
	req := testRequest()
	req.Title = "Quantum Chips"
	req.Text = strings.Repeat("article body ", 400)
	req.Style = "aussie"

	system := SystemPrompt(req)
	if !strings.Contains(system, `{"speaker": "host" or "guest"`) {
		t.Fatal("system prompt missing speaker contract")
	}
	if !strings.Contains(system, "Australian") {
		t.Fatal("expected aussie style instruction")
	}

	user := UserPrompt(req)
	if !strings.Contains(user, "Quantum Chips") {
		t.Fatal("user prompt missing title")
	}
	if len(user) > maxArticleChars+500 {
		t.Fatalf("article not truncated, prompt is %d chars", len(user))
	}
}

func TestMockGeneratorProducesValidScript(t *testing.T) {
	gen := NewMockGenerator()
	turns, err := gen.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("mock generate: %v", err)
	}
	if NonEmptyTurns(turns) == 0 {
		t.Fatal("mock script has no speakable turns")
	}
	for i, turn := range turns {
		if !turn.Speaker.Valid() {
			t.Fatalf("turn %d has invalid speaker %q", i, turn.Speaker)
		}
	}
}
