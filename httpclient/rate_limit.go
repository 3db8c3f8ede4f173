package httpclient

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitConfig throttles outgoing round trips with a token bucket. Every
// redirect hop is a round trip and takes a token.
type RateLimitConfig struct {
	// RequestsPerSecond of zero or less disables the limiter.
	RequestsPerSecond float64

	Burst int

	// WaitOnLimit blocks until a token is free. Otherwise ErrRateLimited is
	// returned immediately.
	WaitOnLimit bool
}

// DefaultRateLimitConfig allows 100 requests per second with a burst of 10
// and waits for a token.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             10,
		WaitOnLimit:       true,
	}
}

// ErrRateLimited is returned when no token is available and waiting is off
// or cannot finish before the context deadline.
var ErrRateLimited = errors.New("httpclient: rate limit exceeded")

type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	wait    bool
	cfg     *internalConfig
}

func newRateLimitTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	rl := cfg.RateLimit
	if rl.RequestsPerSecond <= 0 {
		return next
	}

	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}

	return &rateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst),
		wait:    rl.WaitOnLimit,
		cfg:     cfg,
	}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if err := t.acquire(ctx); err != nil {
		t.cfg.Metrics.recordRateLimited(ctx, t.cfg.baseAttributes())
		return nil, err
	}

	return t.next.RoundTrip(req)
}

func (t *rateLimitTransport) acquire(ctx context.Context) error {
	if !t.wait {
		if !t.limiter.Allow() {
			return ErrRateLimited
		}
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return err
		}
		// Wait fails fast when the deadline cannot be met.
		return ErrRateLimited
	}
	return nil
}
