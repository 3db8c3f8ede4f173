package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type retryTransport struct {
	base       http.RoundTripper
	cfg        *internalConfig
	classifier RetryClassifier
}

func newRetryTransport(base http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	if !cfg.RetryConfig.IsEnabled() {
		return base
	}

	classifier := cfg.RetryClassifier
	if classifier == nil {
		classifier = DefaultClassifier
	}

	return &retryTransport{
		base:       base,
		cfg:        cfg,
		classifier: classifier,
	}
}

type retryableStatusError struct {
	code int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.code)
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	cfg := t.cfg.RetryConfig

	var bodyBytes []byte
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	span := trace.SpanFromContext(ctx)

	var (
		// last holds a buffered retryable-status response, returned as-is
		// when retries run out.
		last      *http.Response
		attempt   int
		startTime = time.Now()
	)

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(t.getBackoff()),
		backoff.WithMaxTries(cfg.MaxRetries + 1),
	}
	if cfg.MaxElapsedTime > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxElapsedTime(cfg.MaxElapsedTime))
	}
	retryOpts = append(retryOpts, backoff.WithNotify(func(err error, next time.Duration) {
		attempt++
		t.recordRetryEvent(span, attempt, err, next)
		t.cfg.Metrics.recordRetryAttempt(ctx, t.cfg.baseAttributes(), attempt)
	}))

	resp, lastErr := backoff.Retry(ctx, func() (*http.Response, error) {
		last = nil

		resp, err := t.base.RoundTrip(t.cloneRequest(req, bodyBytes))

		if t.classifier(resp, err) {
			if err != nil {
				return nil, err
			}
			last = bufferResponse(resp)
			if secs, ok := retryAfterSeconds(resp); ok {
				return nil, backoff.RetryAfter(secs)
			}
			return nil, &retryableStatusError{code: resp.StatusCode}
		}

		if err != nil {
			return nil, backoff.Permanent(err)
		}

		return resp, nil
	}, retryOpts...)

	if attempt > 0 {
		span.SetAttributes(
			attribute.Int("http.retry_count", attempt),
			attribute.Bool("http.retry_success", lastErr == nil),
		)
		if lastErr != nil {
			t.cfg.Metrics.recordRetryExhausted(ctx, t.cfg.baseAttributes())
		}
	}
	t.cfg.Metrics.recordRetryDuration(ctx, t.cfg.baseAttributes(), time.Since(startTime))

	if lastErr != nil && last != nil && ctx.Err() == nil {
		return last, nil
	}

	return resp, lastErr
}

func (t *retryTransport) cloneRequest(req *http.Request, bodyBytes []byte) *http.Request {
	clone := req.Clone(req.Context())

	if bodyBytes != nil {
		clone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		clone.ContentLength = int64(len(bodyBytes))
	} else if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}

	return clone
}

func (t *retryTransport) getBackoff() backoff.BackOff {
	if t.cfg.RetryBackOff != nil {
		if b := t.cfg.RetryBackOff(); b != nil {
			b.Reset()
			return b
		}
	}
	return ExponentialBackOffFromConfig(t.cfg.RetryConfig)
}

func (t *retryTransport) recordRetryEvent(
	span trace.Span,
	attempt int,
	err error,
	nextDelay time.Duration,
) {
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int("retry.attempt", attempt),
		attribute.Int64("retry.delay_ms", nextDelay.Milliseconds()),
	}

	if err != nil {
		var statusErr *retryableStatusError
		var retryAfter *backoff.RetryAfterError
		reason := classifyError(err)
		switch {
		case errors.As(err, &statusErr):
			reason = strconv.Itoa(statusErr.code)
		case errors.As(err, &retryAfter):
			reason = "retry_after"
		}
		attrs = append(attrs, attribute.String("retry.reason", reason))
	}

	span.AddEvent("http.retry", trace.WithAttributes(attrs...))
}

// bufferResponse reads the body into memory so the connection is released
// and the response can still be handed back if no retry succeeds.
func bufferResponse(resp *http.Response) *http.Response {
	if resp.Body == nil {
		return resp
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp
}

func retryAfterSeconds(resp *http.Response) (int, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return secs, true
	}
	if when, err := http.ParseTime(v); err == nil {
		secs := int(time.Until(when).Seconds())
		if secs < 0 {
			secs = 0
		}
		return secs, true
	}
	return 0, false
}
