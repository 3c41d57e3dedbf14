// Package episode assembles per-turn speech clips into one playable
// episode file.
package episode

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/podwavelabs/podwave-core/internal/audio"
	"github.com/podwavelabs/podwave-core/internal/script"
	"github.com/podwavelabs/podwave-core/internal/tts"
)

// mode is the assembler's accumulation strategy. A job starts in modeRaw
// and may transition to modeStream exactly once; it never transitions back.
type mode int

const (
	modeRaw mode = iota
	modeStream
)

// Job is one unit of assembly work. It is never shared across concurrent
// assemblies; every job owns its own buffers and format state.
type Job struct {
	Turns       []script.Turn
	HostVoice   string
	GuestVoice  string
	PauseMS     int
	TurnDelayMS int
	PreferWAV   bool
}

// Progress receives percent in [0,100], non-decreasing within a job, and
// a human-readable message. Called synchronously from the assembly loop.
type Progress func(percent int, message string)

// Result is the finished episode. Format is meaningful only when the job
// stayed in raw mode.
type Result struct {
	Data       []byte
	Filename   string
	Format     audio.Format
	Downgraded bool
}

// Assembler drives the per-turn synthesis loop. Safe for concurrent use;
// all per-job state lives in Assemble's locals.
type Assembler struct {
	synth  tts.Synthesizer
	prefix string
	now    func() time.Time
}

func NewAssembler(synth tts.Synthesizer, filenamePrefix string) *Assembler {
	return &Assembler{
		synth:  synth,
		prefix: filenamePrefix,
		now:    time.Now,
	}
}

// Assemble runs one job to completion. Turns are processed strictly in
// order; turn i+1 is never requested before turn i's response, including
// any fallback re-request, has been validated. On any error the partial
// buffers are discarded and only the error is returned.
func (a *Assembler) Assemble(ctx context.Context, job Job, progress Progress) (Result, error) {
	total := len(job.Turns)
	if script.NonEmptyTurns(job.Turns) == 0 {
		return Result{}, ErrEmptyScript
	}
	report(progress, 0, "starting episode synthesis")

	cur := modeRaw
	if !job.PreferWAV {
		cur = modeStream
	}

	var (
		st         jobState
		segments   []byte
		downgraded bool
	)

	lastSpeakable := lastNonEmptyIndex(job.Turns)

	for i, turn := range job.Turns {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("episode cancelled: %w", err)
		}
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		idx := i + 1
		percent := int(float64(idx-1) / float64(total) * 90)
		report(progress, percent, fmt.Sprintf("synthesizing turn %d/%d (%s)", idx, total, turn.Speaker))

		voice := job.HostVoice
		if turn.Speaker == script.SpeakerGuest {
			voice = job.GuestVoice
		}

		if cur == modeRaw {
			ok, err := a.rawTurn(ctx, &st, job, text, voice, i == lastSpeakable)
			if err != nil {
				return Result{}, err
			}
			if ok {
				if err := a.turnDelay(ctx, job, i, lastSpeakable); err != nil {
					return Result{}, err
				}
				continue
			}
			// Request or parse failed. Downgrade once and re-request this
			// same turn as a compressed stream.
			cur = modeStream
			downgraded = true
			report(progress, percent, fmt.Sprintf("switching to mp3 fallback (turn %d)", idx))
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("episode cancelled: %w", err)
			}
		}

		body, err := a.synth.Synthesize(ctx, tts.SynthRequest{Text: text, VoiceID: voice, PreferWAV: false})
		if err != nil {
			return Result{}, err
		}
		if !audio.LooksLikeMP3(body) {
			preview := body
			if len(preview) > 16 {
				preview = preview[:16]
			}
			return Result{}, &StreamFallbackError{Turn: idx, Detail: "unexpected bytes " + hex.EncodeToString(preview)}
		}
		segments = append(segments, body...)
		if err := a.turnDelay(ctx, job, i, lastSpeakable); err != nil {
			return Result{}, err
		}
	}

	var data []byte
	ext := "wav"
	if cur == modeStream {
		report(progress, 95, "merging mp3 segments")
		data = segments
		ext = "mp3"
	} else {
		report(progress, 95, "finalizing wav file")
		data = audio.EncodeWAV(st.pcm, st.format)
	}

	result := Result{
		Data:       data,
		Filename:   fmt.Sprintf("%s_%s.%s", a.prefix, a.now().Format("20060102_150405"), ext),
		Downgraded: downgraded,
	}
	if cur == modeRaw {
		result.Format = st.format
	}
	report(progress, 100, "done")
	return result, nil
}

// jobState is the raw-mode accumulation owned by a single Assemble call.
type jobState struct {
	pcm        []byte
	format     audio.Format
	haveFormat bool
	silence    []byte
}

// rawTurn attempts one turn in raw mode. It reports ok=false with a nil
// error when the request or parse failed and the caller should downgrade;
// a format mismatch is returned as a hard error instead.
func (a *Assembler) rawTurn(ctx context.Context, st *jobState, job Job, text, voice string, isLast bool) (bool, error) {
	body, err := a.synth.Synthesize(ctx, tts.SynthRequest{Text: text, VoiceID: voice, PreferWAV: true})
	if err != nil {
		return false, nil
	}
	payload, turnFormat, err := audio.DecodeWAV(body)
	if err != nil {
		return false, nil
	}
	if !st.haveFormat {
		st.format = turnFormat
		st.haveFormat = true
		st.silence = audio.Silence(turnFormat, job.PauseMS)
	} else if turnFormat != st.format {
		return false, &FormatMismatchError{Expected: st.format, Got: turnFormat}
	}
	st.pcm = append(st.pcm, payload...)
	if !isLast {
		st.pcm = append(st.pcm, st.silence...)
	}
	return true, nil
}

// turnDelay spaces out provider calls when configured, typically to stay
// under per-key rate limits.
func (a *Assembler) turnDelay(ctx context.Context, job Job, i, lastSpeakable int) error {
	if job.TurnDelayMS <= 0 || i == lastSpeakable {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("episode cancelled: %w", ctx.Err())
	case <-time.After(time.Duration(job.TurnDelayMS) * time.Millisecond):
		return nil
	}
}

func lastNonEmptyIndex(turns []script.Turn) int {
	last := -1
	for i, t := range turns {
		if strings.TrimSpace(t.Text) != "" {
			last = i
		}
	}
	return last
}

func report(progress Progress, percent int, message string) {
	if progress != nil {
		progress(percent, message)
	}
}
