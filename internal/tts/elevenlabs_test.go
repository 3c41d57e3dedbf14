package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/podwavelabs/podwave-core/internal/audio"
	"github.com/podwavelabs/podwave-core/internal/config"
)

func testTTSConfig(baseURL string) config.TTSConfig {
	cfg := config.Default().TTS
	cfg.BaseURL = baseURL
	cfg.APIKey = "xi-test-key"
	return cfg
}

func TestSynthesizeWAVRequest(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
	wavBody := audio.EncodeWAV(audio.Silence(format, 100), format)

	var gotAccept, gotKey, gotPath string
	var gotPayload synthesisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotKey = r.Header.Get("xi-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write(wavBody)
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	body, err := client.Synthesize(context.Background(), SynthRequest{Text: "Hello there.", VoiceID: "voice-1", PreferWAV: true})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(body) != len(wavBody) {
		t.Fatalf("expected %d bytes, got %d", len(wavBody), len(body))
	}
	if gotAccept != "audio/wav" {
		t.Fatalf("expected audio/wav accept header, got %q", gotAccept)
	}
	if gotKey != "xi-test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotPath != "/text-to-speech/voice-1" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotPayload.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("unexpected model id %q", gotPayload.ModelID)
	}
	if gotPayload.OutputFormat != "wav" {
		t.Fatalf("unexpected output format %q", gotPayload.OutputFormat)
	}
}

func TestSynthesizeMP3Request(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		body := make([]byte, audio.MinWAVSize)
		body[0], body[1] = 0xFF, 0xFB
		w.Write(body)
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	body, err := client.Synthesize(context.Background(), SynthRequest{Text: "Hi!", VoiceID: "voice-2"})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotAccept != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg accept header, got %q", gotAccept)
	}
	if !audio.LooksLikeMP3(body) {
		t.Fatal("expected mp3-shaped body")
	}
}

func TestSynthesizeStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	_, err := client.Synthesize(context.Background(), SynthRequest{Text: "Hi", VoiceID: "v", PreferWAV: true})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", reqErr.StatusCode)
	}
	if !strings.Contains(reqErr.BodyPreview, "invalid api key") {
		t.Fatalf("expected body preview, got %q", reqErr.BodyPreview)
	}
}

func TestSynthesizeShortBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("oops"))
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	_, err := client.Synthesize(context.Background(), SynthRequest{Text: "Hi", VoiceID: "v", PreferWAV: true})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError for short body, got %v", err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := NewElevenLabs(testTTSConfig("http://localhost:0"))
	if _, err := client.Synthesize(context.Background(), SynthRequest{Text: "   ", VoiceID: "v"}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voices" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voices":[{"voice_id":"v1","name":"Rachel","category":"premade"},{"voice_id":"v2","name":"Josh","category":"premade"}]}`))
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	voices, err := client.Voices(context.Background())
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	if voices[0].ID != "v1" || voices[0].Name != "Rachel" {
		t.Fatalf("unexpected voice %+v", voices[0])
	}
}

func TestPreviewUsesDefaultText(t *testing.T) {
	var gotPayload synthesisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	}))
	defer srv.Close()

	client := NewElevenLabs(testTTSConfig(srv.URL))
	if _, err := client.Preview(context.Background(), "v1", ""); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if gotPayload.Text == "" {
		t.Fatal("expected default preview text")
	}
}
