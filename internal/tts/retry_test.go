package tts

import (
	"context"
	"errors"
	"testing"
)

type flakySynth struct {
	calls    int
	failures int
	err      error
}

func (f *flakySynth) Synthesize(ctx context.Context, req SynthRequest) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []byte("audio"), nil
}

func TestRetryRecoversFromTransportError(t *testing.T) {
	inner := &flakySynth{failures: 1, err: errors.New("connection reset")}
	synth := WithRetry(inner, 2)

	body, err := synth.Synthesize(context.Background(), SynthRequest{Text: "hi", VoiceID: "v"})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if string(body) != "audio" {
		t.Fatalf("unexpected body %q", body)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestRetryDoesNotRepeatProviderErrors(t *testing.T) {
	inner := &flakySynth{failures: 10, err: &RequestError{StatusCode: 401, BodyPreview: "denied"}}
	synth := WithRetry(inner, 3)

	_, err := synth.Synthesize(context.Background(), SynthRequest{Text: "hi", VoiceID: "v"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.StatusCode != 401 {
		t.Fatalf("expected status 401, got %d", reqErr.StatusCode)
	}
	if inner.calls != 1 {
		t.Fatalf("provider error must not be retried, got %d attempts", inner.calls)
	}
}

func TestRetryExhaustionClassifiesAsRequestError(t *testing.T) {
	inner := &flakySynth{failures: 10, err: errors.New("dial timeout")}
	synth := WithRetry(inner, 1)

	_, err := synth.Synthesize(context.Background(), SynthRequest{Text: "hi", VoiceID: "v"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError after exhaustion, got %v", err)
	}
	if reqErr.StatusCode != 0 {
		t.Fatalf("expected status 0 for transport failure, got %d", reqErr.StatusCode)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestWithRetryZeroReturnsInner(t *testing.T) {
	inner := &flakySynth{}
	if got := WithRetry(inner, 0); got != Synthesizer(inner) {
		t.Fatal("expected inner synthesizer unchanged")
	}
}
