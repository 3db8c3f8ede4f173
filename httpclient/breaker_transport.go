package httpclient

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/sony/gobreaker/v2"
)

// errSyntheticFailure marks a response the classifier judged a failure. The
// breaker counts it, the caller still receives the response.
var errSyntheticFailure = errors.New("synthetic failure")

type circuitBreakerTransport struct {
	next       http.RoundTripper
	classifier BreakerClassifier
	cfg        *internalConfig
	name       string
	perHost    bool
	newBreaker func(name string) CircuitBreaker

	mu       sync.Mutex
	breakers map[string]CircuitBreaker
}

func newCircuitBreakerTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	if cfg.BreakerConfig == nil {
		return next
	}

	bc := *cfg.BreakerConfig

	name := cfg.ServiceName
	if name == "" {
		name = "default-http-client"
	}

	classifier := bc.Classifier
	if classifier == nil {
		classifier = DefaultBreakerClassifier
	}

	newBreaker := func(name string) CircuitBreaker {
		st := bc.settings(name)
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.Metrics.recordBreakerState(context.Background(), name, int64(to))
			cfg.Logger.Debug().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			if bc.OnStateChange != nil {
				bc.OnStateChange(name, from, to)
			}
		}

		if bc.Store != nil {
			dcb, err := gobreaker.NewDistributedCircuitBreaker[interface{}](bc.Store, st)
			if err == nil {
				return dcb
			}
			cfg.Logger.Warn().Err(err).Str("breaker", name).
				Msg("distributed circuit breaker unavailable, falling back to local")
		}
		return gobreaker.NewCircuitBreaker[interface{}](st)
	}

	return &circuitBreakerTransport{
		next:       next,
		classifier: classifier,
		cfg:        cfg,
		name:       name,
		perHost:    bc.PerHost,
		newBreaker: newBreaker,
		breakers:   make(map[string]CircuitBreaker),
	}
}

func (t *circuitBreakerTransport) breakerFor(req *http.Request) (CircuitBreaker, string) {
	name := t.name
	if t.perHost && req.URL != nil {
		name = t.name + ":" + req.URL.Host
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[name]; ok {
		return cb, name
	}
	cb := t.newBreaker(name)
	t.breakers[name] = cb
	return cb, name
}

func (t *circuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	breaker, name := t.breakerFor(req)

	res, err := breaker.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req) //nolint:bodyclose

		if t.classifier(resp, err) {
			if err != nil {
				return resp, err
			}
			return resp, errSyntheticFailure
		}

		return resp, err
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			t.cfg.Metrics.recordBreakerRequest(ctx, name, "rejected")
		default:
			t.cfg.Metrics.recordBreakerRequest(ctx, name, "failure")
		}

		if errors.Is(err, errSyntheticFailure) {
			if resp, ok := res.(*http.Response); ok {
				return resp, nil
			}
		}

		return nil, err
	}

	t.cfg.Metrics.recordBreakerRequest(ctx, name, "success")

	if resp, ok := res.(*http.Response); ok {
		return resp, nil
	}

	return nil, errors.New("circuit breaker returned unknown response type")
}
