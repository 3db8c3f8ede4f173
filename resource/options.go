package resource

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/kroma-labs/resourceful-go/resource"

	// DefaultMaxRedirects matches the limit net/http applies.
	DefaultMaxRedirects = 10
)

// config is shared, read-only, between a Resource and its delegates.
type config struct {
	logger       zerolog.Logger
	maxRedirects int

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer  trace.Tracer
	metrics *metrics
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:         zerolog.Nop(),
		maxRedirects:   DefaultMaxRedirects,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.tracer = cfg.tracerProvider.Tracer(scope)

	// Instruments stay nil on failure; recording is a no-op then.
	cfg.metrics, _ = newMetrics(cfg.meterProvider.Meter(scope))

	return cfg
}

// Option configures a Resource.
type Option func(*config)

// WithLogger sets the logger used for redirect hops. Hops are logged at
// debug level. Default: zerolog.Nop().
//
// Example:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	res := resource.New(client, uri, resource.WithLogger(logger))
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxRedirects bounds the number of hops a single operation may
// follow, across permanent and temporary redirects alike.
//
//   - n > 0: at most n hops, then *TooManyRedirectsError
//   - n == 0: no limit; loops are still detected
//   - n < 0: redirects are never followed, the redirect Response is returned
//
// Default: DefaultMaxRedirects (10)
func WithMaxRedirects(n int) Option {
	return func(cfg *config) {
		cfg.maxRedirects = n
	}
}

// WithTracerProvider sets the TracerProvider used for operation spans.
// If not set, otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithMeterProvider sets the MeterProvider used for redirect metrics.
// If not set, otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.meterProvider = mp
	}
}
