package httpclient

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	_ backoff.BackOff = (*LinearBackOff)(nil)
	_ backoff.BackOff = (*DecorrelatedJitterBackOff)(nil)
	_ backoff.BackOff = (*ConstantBackOffWithJitter)(nil)
	_ backoff.BackOff = (*TieredRetryBackOff)(nil)
)

// LinearBackOff waits InitialInterval + n*Increment before the nth retry
// (0-based), capped at MaxInterval, then applies JitterFactor.
//
// With InitialInterval=1s, Increment=500ms and no jitter the waits are
// 1s, 1.5s, 2s and so on.
type LinearBackOff struct {
	InitialInterval time.Duration
	Increment       time.Duration
	MaxInterval     time.Duration
	JitterFactor    float64

	attempt int
}

// NewLinearBackOff returns a LinearBackOff starting at 500ms, growing by
// 500ms up to 30s, with 50% jitter.
func NewLinearBackOff() *LinearBackOff {
	return &LinearBackOff{
		InitialInterval: 500 * time.Millisecond,
		Increment:       500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		JitterFactor:    DefaultJitterFactor,
	}
}

func (b *LinearBackOff) Reset() {
	b.attempt = 0
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	interval := b.InitialInterval + time.Duration(b.attempt)*b.Increment
	if b.MaxInterval > 0 && interval > b.MaxInterval {
		interval = b.MaxInterval
	}
	b.attempt++
	return applyJitter(interval, b.JitterFactor)
}

// DecorrelatedJitterBackOff draws each wait uniformly from
// [Base, min(Cap, 3*previous)]. Successive waits are only loosely tied to
// each other, which spreads out many clients retrying against the same
// redirect target.
type DecorrelatedJitterBackOff struct {
	Base time.Duration
	Cap  time.Duration

	prev time.Duration
}

// NewDecorrelatedJitterBackOff returns a DecorrelatedJitterBackOff with a
// 500ms base and a 30s cap.
func NewDecorrelatedJitterBackOff() *DecorrelatedJitterBackOff {
	return &DecorrelatedJitterBackOff{
		Base: 500 * time.Millisecond,
		Cap:  30 * time.Second,
	}
}

func (b *DecorrelatedJitterBackOff) Reset() {
	b.prev = 0
}

func (b *DecorrelatedJitterBackOff) NextBackOff() time.Duration {
	prev := max(b.prev, b.Base)
	upper := prev * 3
	if b.Cap > 0 && upper > b.Cap {
		upper = b.Cap
	}
	b.prev = randomBetween(b.Base, upper)
	return b.prev
}

// ConstantBackOffWithJitter waits Interval +/- JitterFactor between attempts.
type ConstantBackOffWithJitter struct {
	Interval     time.Duration
	JitterFactor float64
}

// NewConstantBackOffWithJitter returns a 1s interval with 50% jitter.
func NewConstantBackOffWithJitter() *ConstantBackOffWithJitter {
	return &ConstantBackOffWithJitter{
		Interval:     1 * time.Second,
		JitterFactor: DefaultJitterFactor,
	}
}

func (b *ConstantBackOffWithJitter) Reset() {}

func (b *ConstantBackOffWithJitter) NextBackOff() time.Duration {
	return applyJitter(b.Interval, b.JitterFactor)
}

// RetryTier is a run of MaxRetries retries spaced Delay apart.
type RetryTier struct {
	MaxRetries int
	Delay      time.Duration
}

// TieredRetryBackOff steps through fixed-delay tiers. Once every tier is
// used up it keeps doubling the last tier's delay, up to MaxDelay.
//
//	b := httpclient.NewTieredRetryBackOff([]httpclient.RetryTier{
//	    {MaxRetries: 3, Delay: 200 * time.Millisecond},
//	    {MaxRetries: 2, Delay: time.Second},
//	}, 10*time.Second, 0.2)
//
// gives roughly 200ms three times, 1s twice, then 2s, 4s, 8s, 10s, 10s.
type TieredRetryBackOff struct {
	Tiers        []RetryTier
	MaxDelay     time.Duration
	JitterFactor float64

	attempt int
}

// NewTieredRetryBackOff builds a TieredRetryBackOff. A non-positive
// jitterFactor falls back to DefaultJitterFactor.
func NewTieredRetryBackOff(tiers []RetryTier, maxDelay time.Duration, jitterFactor float64) *TieredRetryBackOff {
	if jitterFactor <= 0 {
		jitterFactor = DefaultJitterFactor
	}
	return &TieredRetryBackOff{
		Tiers:        tiers,
		MaxDelay:     maxDelay,
		JitterFactor: jitterFactor,
	}
}

// DefaultTieredRetryBackOff retries five times at 1s, five times at 5s,
// then backs off exponentially up to one minute.
func DefaultTieredRetryBackOff() *TieredRetryBackOff {
	return NewTieredRetryBackOff(
		[]RetryTier{
			{MaxRetries: 5, Delay: 1 * time.Second},
			{MaxRetries: 5, Delay: 5 * time.Second},
		},
		time.Minute,
		DefaultJitterFactor,
	)
}

func (b *TieredRetryBackOff) Reset() {
	b.attempt = 0
}

func (b *TieredRetryBackOff) NextBackOff() time.Duration {
	b.attempt++
	return applyJitter(b.delay(), b.JitterFactor)
}

// CurrentTier returns the 1-based tier of the most recent NextBackOff call,
// or len(Tiers)+1 once in the exponential phase.
func (b *TieredRetryBackOff) CurrentTier() int {
	tier, _ := b.locate()
	return tier
}

// locate maps the current attempt to its tier and its 1-based position past
// the fixed tiers (0 while still inside one).
func (b *TieredRetryBackOff) locate() (tier, overflow int) {
	n := b.attempt
	for i, t := range b.Tiers {
		if n <= t.MaxRetries {
			return i + 1, 0
		}
		n -= t.MaxRetries
	}
	return len(b.Tiers) + 1, n
}

func (b *TieredRetryBackOff) delay() time.Duration {
	tier, overflow := b.locate()
	if overflow == 0 {
		return b.Tiers[tier-1].Delay
	}

	d := time.Second
	if len(b.Tiers) > 0 {
		d = b.Tiers[len(b.Tiers)-1].Delay
	}
	for range overflow {
		if d > math.MaxInt64/2 {
			return d
		}
		d *= 2
		if b.MaxDelay > 0 && d >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	return d
}

// applyJitter spreads interval uniformly over +/- jitterFactor of itself.
// The factor is clamped to 1.
func applyJitter(interval time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return interval
	}
	if jitterFactor > 1 {
		jitterFactor = 1
	}

	delta := float64(interval) * jitterFactor
	lo := float64(interval) - delta

	//nolint:gosec // jitter, not crypto
	return time.Duration(lo + rand.Float64()*2*delta)
}

//nolint:gosec // jitter, not crypto
func randomBetween(lo, hi time.Duration) time.Duration {
	if lo >= hi {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
