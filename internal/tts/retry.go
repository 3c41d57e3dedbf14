package tts

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
)

// retrySynth retries transport-level failures with exponential backoff.
// Provider responses, including non-2xx statuses, are never retried: a
// RequestError with a status code is a definitive answer, while a
// transport error (timeout, connection reset) is transient. Repeating a
// synthesis request is safe because the same text and voice produce
// equivalent audio.
type retrySynth struct {
	inner      Synthesizer
	maxRetries int
}

// WithRetry wraps a synthesizer with bounded transient-failure retry.
// maxRetries counts attempts after the first; zero disables retrying.
func WithRetry(inner Synthesizer, maxRetries int) Synthesizer {
	if maxRetries <= 0 {
		return inner
	}
	return &retrySynth{inner: inner, maxRetries: maxRetries}
}

func (r *retrySynth) Synthesize(ctx context.Context, req SynthRequest) ([]byte, error) {
	operation := func() ([]byte, error) {
		body, err := r.inner.Synthesize(ctx, req)
		if err != nil {
			var reqErr *RequestError
			if errors.As(err, &reqErr) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(r.maxRetries)+1),
	)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return nil, err
		}
		// Transport failure survived every attempt.
		return nil, &RequestError{StatusCode: 0, BodyPreview: err.Error()}
	}
	return body, nil
}
