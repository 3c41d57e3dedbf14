package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/podwavelabs/podwave-core/internal/audio"
	"github.com/podwavelabs/podwave-core/internal/config"
)

const bodyPreviewLen = 160

const defaultPreviewText = "Hello! This is a voice preview for the podcast generator."

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
	OutputFormat  string        `json:"output_format,omitempty"`
}

type voiceListResponse struct {
	Voices []struct {
		VoiceID  string `json:"voice_id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"voices"`
}

// ElevenLabs issues synthesis and catalog requests against the ElevenLabs
// HTTP API. It performs exactly one network call per Synthesize invocation.
type ElevenLabs struct {
	baseURL    string
	apiKey     string
	model      string
	settings   voiceSettings
	httpClient *http.Client
}

var _ Synthesizer = (*ElevenLabs)(nil)
var _ Catalog = (*ElevenLabs)(nil)

// NewElevenLabs builds a client from config. The HTTP client timeout is
// the upper bound for every provider call.
func NewElevenLabs(cfg config.TTSConfig) *ElevenLabs {
	return &ElevenLabs{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		settings: voiceSettings{
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
			Style:           cfg.Style,
			UseSpeakerBoost: cfg.UseSpeakerBoost,
		},
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
			Transport: &http.Transport{
				MaxIdleConns:    16,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// Synthesize requests audio for one turn. PreferWAV asks the provider for
// an uncompressed container; otherwise an MP3 stream is requested. A 2xx
// body shorter than the minimum WAV header can never be playable audio
// and is reported as a request failure.
func (c *ElevenLabs) Synthesize(ctx context.Context, req SynthRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("synthesize: empty text")
	}
	if req.VoiceID == "" {
		return nil, fmt.Errorf("synthesize: voice id required")
	}

	payload := synthesisRequest{
		Text:          req.Text,
		ModelID:       c.model,
		VoiceSettings: c.settings,
	}
	accept := "audio/mpeg"
	if req.PreferWAV {
		accept = "audio/wav"
		payload.OutputFormat = "wav"
	} else {
		payload.OutputFormat = "mp3_44100_128"
	}

	body, err := c.post(ctx, "/text-to-speech/"+url.PathEscape(req.VoiceID), accept, payload)
	if err != nil {
		return nil, err
	}
	if len(body) < audio.MinWAVSize {
		return nil, &RequestError{StatusCode: http.StatusOK, BodyPreview: fmt.Sprintf("body too short (%d bytes)", len(body))}
	}
	return body, nil
}

// Voices fetches the provider's voice catalog.
func (c *ElevenLabs) Voices(ctx context.Context) ([]Voice, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var list voiceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode voice list: %w", err)
	}

	voices := make([]Voice, 0, len(list.Voices))
	for _, v := range list.Voices {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return voices, nil
}

// Preview synthesizes a short MP3 sample for a voice. No retry policy
// applies here; a preview is a single direct call.
func (c *ElevenLabs) Preview(ctx context.Context, voiceID, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		text = defaultPreviewText
	}
	return c.post(ctx, "/text-to-speech/"+url.PathEscape(voiceID), "audio/mpeg", synthesisRequest{
		Text:          text,
		ModelID:       c.model,
		VoiceSettings: c.settings,
	})
}

func (c *ElevenLabs) post(ctx context.Context, path, accept string, payload synthesisRequest) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}

	return io.ReadAll(resp.Body)
}

func responseError(resp *http.Response) *RequestError {
	preview, _ := io.ReadAll(io.LimitReader(resp.Body, bodyPreviewLen))
	return &RequestError{
		StatusCode:  resp.StatusCode,
		BodyPreview: string(preview),
	}
}
