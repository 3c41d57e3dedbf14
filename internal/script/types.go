// Package script turns article content into a two-speaker podcast script
// via a pluggable language model backend.
package script

import (
	"context"
	"strings"

	"github.com/podwavelabs/podwave-core/internal/config"
)

// Speaker identifies which of the two episode voices delivers a turn.
type Speaker string

const (
	SpeakerHost  Speaker = "host"
	SpeakerGuest Speaker = "guest"
)

// Valid reports whether the speaker is one of the two supported roles.
func (s Speaker) Valid() bool {
	return s == SpeakerHost || s == SpeakerGuest
}

// Turn is one speaker's contribution to the script, synthesized later as
// one independent TTS request.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Request describes one script generation call.
type Request struct {
	Title       string
	Text        string
	HostName    string
	GuestName   string
	Style       string // conversational, aussie
	TargetTurns int
	MaxTokens   int
	Temperature float64
}

// Generator defines a pluggable script backend.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Turn, error)
}

// RequestFromConfig builds generation defaults from config; the article
// title and text are filled in per job.
func RequestFromConfig(cfg config.ScriptConfig) Request {
	return Request{
		HostName:    cfg.HostName,
		GuestName:   cfg.GuestName,
		Style:       cfg.Style,
		TargetTurns: cfg.TargetTurns,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// NonEmptyTurns counts turns whose text survives trimming. The assembler
// skips blank turns, so a script where this is zero can never produce audio.
func NonEmptyTurns(turns []Turn) int {
	n := 0
	for _, t := range turns {
		if strings.TrimSpace(t.Text) != "" {
			n++
		}
	}
	return n
}
