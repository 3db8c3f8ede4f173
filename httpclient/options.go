package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	scope = "github.com/kroma-labs/resourceful-go/httpclient"

	// DefaultRequestIDHeader is the header stamped on every outgoing attempt
	// unless the caller already set it.
	DefaultRequestIDHeader = "X-Request-ID"
)

// Config holds the transport-level tuning of the underlying http.Transport.
//
// Use one of the presets (DefaultConfig, HighThroughputConfig,
// LowLatencyConfig, ConservativeConfig) as a starting point and override
// individual fields as needed.
type Config struct {
	// Timeout bounds a single round trip, redirect hops are separate
	// round trips and each gets the full budget.
	Timeout time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration

	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	ResponseHeaderTimeout time.Duration

	DialTimeout   time.Duration
	KeepAlive     time.Duration
	FallbackDelay time.Duration

	DisableKeepAlives  bool
	DisableCompression bool
	ForceHTTP2         bool
}

// DefaultConfig returns balanced settings suitable for most services.
func DefaultConfig() Config {
	return Config{
		Timeout: 15 * time.Second,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DialTimeout:   5 * time.Second,
		KeepAlive:     30 * time.Second,
		FallbackDelay: 300 * time.Millisecond,

		DisableCompression: true,
	}
}

// HighThroughputConfig favours large idle pools for fan-out workloads.
func HighThroughputConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 30 * time.Second
	cfg.MaxIdleConns = 500
	cfg.MaxIdleConnsPerHost = 100
	cfg.MaxConnsPerHost = 0
	cfg.IdleConnTimeout = 120 * time.Second
	return cfg
}

// LowLatencyConfig uses short timeouts and prefers HTTP/2.
func LowLatencyConfig() Config {
	return Config{
		Timeout: 5 * time.Second,

		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 25,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     60 * time.Second,

		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 500 * time.Millisecond,
		ResponseHeaderTimeout: 3 * time.Second,

		DialTimeout:   2 * time.Second,
		KeepAlive:     15 * time.Second,
		FallbackDelay: 150 * time.Millisecond,

		DisableCompression: true,
		ForceHTTP2:         true,
	}
}

// ConservativeConfig keeps connection usage low, for fragile upstreams.
func ConservativeConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Second
	cfg.MaxIdleConns = 20
	cfg.MaxIdleConnsPerHost = 5
	cfg.MaxConnsPerHost = 20
	cfg.IdleConnTimeout = 30 * time.Second
	return cfg
}

// internalConfig holds everything New needs to assemble the client.
type internalConfig struct {
	httpConfig Config

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *metrics

	ServiceName string
	Logger      zerolog.Logger

	BaseURL        string
	DefaultHeaders http.Header
	UserAgent      string

	RequestIDHeader string

	Debug        bool
	GenerateCurl bool

	TLSConfig            *tls.Config
	ProxyURL             *url.URL
	ProxyFromEnvironment bool

	RetryConfig     RetryConfig
	RetryClassifier RetryClassifier
	RetryBackOff    func() backoff.BackOff

	BreakerConfig *BreakerConfig

	RateLimit RateLimitConfig

	Coalescing bool

	RedirectPolicy RedirectPolicy

	Interceptors *InterceptorChain

	CrossHostCredentials bool

	NetworkTrace bool

	// Transport replaces the net/http transport at the bottom of the chain.
	Transport http.RoundTripper
}

func newConfig(opts ...Option) *internalConfig {
	cfg := &internalConfig{
		httpConfig:     DefaultConfig(),
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
		Logger:         zerolog.Nop(),

		DefaultHeaders:  make(http.Header),
		RequestIDHeader: DefaultRequestIDHeader,

		ProxyFromEnvironment: true,

		RetryConfig:    NoRetryConfig(),
		RedirectPolicy: DefaultRedirectPolicy,

		Interceptors: NewInterceptorChain(),
		NetworkTrace: true,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)
	cfg.Meter = cfg.MeterProvider.Meter(scope)

	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

func (cfg *internalConfig) buildTransport() http.RoundTripper {
	if cfg.Transport != nil {
		return cfg.Transport
	}

	hc := cfg.httpConfig

	dialer := &net.Dialer{
		Timeout:       hc.DialTimeout,
		KeepAlive:     hc.KeepAlive,
		FallbackDelay: hc.FallbackDelay,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          hc.MaxIdleConns,
		MaxIdleConnsPerHost:   hc.MaxIdleConnsPerHost,
		MaxConnsPerHost:       hc.MaxConnsPerHost,
		IdleConnTimeout:       hc.IdleConnTimeout,
		TLSHandshakeTimeout:   hc.TLSHandshakeTimeout,
		ResponseHeaderTimeout: hc.ResponseHeaderTimeout,
		ExpectContinueTimeout: hc.ExpectContinueTimeout,
		DisableKeepAlives:     hc.DisableKeepAlives,
		DisableCompression:    hc.DisableCompression,
		TLSClientConfig:       cfg.TLSConfig,
		ForceAttemptHTTP2:     hc.ForceHTTP2,
	}

	if cfg.ProxyURL != nil {
		transport.Proxy = http.ProxyURL(cfg.ProxyURL)
	} else if cfg.ProxyFromEnvironment {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return transport
}

func (cfg *internalConfig) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 1)
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("http.client.name", cfg.ServiceName))
	}
	return attrs
}

// Option configures a Client.
type Option func(*internalConfig)

// WithConfig replaces the transport tuning.
func WithConfig(c Config) Option {
	return func(cfg *internalConfig) {
		cfg.httpConfig = c
	}
}

// WithServiceName names the client in telemetry and in the circuit breaker.
func WithServiceName(name string) Option {
	return func(cfg *internalConfig) {
		cfg.ServiceName = name
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *internalConfig) {
		cfg.TracerProvider = tp
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *internalConfig) {
		cfg.MeterProvider = mp
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *internalConfig) {
		cfg.Logger = logger
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Debug = enabled
	}
}

// WithGenerateCurl attaches an equivalent curl command to every Response.
func WithGenerateCurl(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.GenerateCurl = enabled
	}
}

// WithBaseURL resolves relative resource URIs against base.
func WithBaseURL(base string) Option {
	return func(cfg *internalConfig) {
		cfg.BaseURL = base
	}
}

// WithDefaultHeaders adds headers sent with every request. Later calls merge.
func WithDefaultHeaders(h http.Header) Option {
	return func(cfg *internalConfig) {
		for k, vs := range h {
			for _, v := range vs {
				cfg.DefaultHeaders.Add(k, v)
			}
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(cfg *internalConfig) {
		cfg.UserAgent = ua
	}
}

// WithRequestIDHeader changes the request ID header. An empty name disables
// request ID stamping.
func WithRequestIDHeader(name string) Option {
	return func(cfg *internalConfig) {
		cfg.RequestIDHeader = name
	}
}

func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(cfg *internalConfig) {
		cfg.TLSConfig = tlsCfg
	}
}

func WithProxyURL(proxyURL *url.URL) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyURL = proxyURL
		cfg.ProxyFromEnvironment = false
	}
}

func WithProxyFromEnvironment(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.ProxyFromEnvironment = enabled
	}
}

// WithRetryConfig enables retries of individual attempts. Retries happen
// below redirect handling; a redirect response is never retried.
func WithRetryConfig(rc RetryConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RetryConfig = rc
	}
}

// WithRetryClassifier overrides DefaultClassifier.
func WithRetryClassifier(c RetryClassifier) Option {
	return func(cfg *internalConfig) {
		cfg.RetryClassifier = c
	}
}

// WithRetryBackOff overrides the exponential backoff derived from RetryConfig.
// newBackOff is called once per round trip, so stateful strategies such as
// LinearBackOff or TieredRetryBackOff are never shared between requests:
//
//	httpclient.WithRetryBackOff(func() backoff.BackOff {
//	    return httpclient.NewLinearBackOff()
//	})
func WithRetryBackOff(newBackOff func() backoff.BackOff) Option {
	return func(cfg *internalConfig) {
		cfg.RetryBackOff = newBackOff
	}
}

// WithBreakerConfig enables the circuit breaker.
func WithBreakerConfig(bc BreakerConfig) Option {
	return func(cfg *internalConfig) {
		cfg.BreakerConfig = &bc
	}
}

// WithRateLimit throttles outgoing attempts, redirect hops included.
func WithRateLimit(rl RateLimitConfig) Option {
	return func(cfg *internalConfig) {
		cfg.RateLimit = rl
	}
}

// WithCoalescing shares one in-flight GET or HEAD between identical
// concurrent callers.
func WithCoalescing(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.Coalescing = enabled
	}
}

// WithRedirectPolicy overrides DefaultRedirectPolicy.
func WithRedirectPolicy(p RedirectPolicy) Option {
	return func(cfg *internalConfig) {
		if p != nil {
			cfg.RedirectPolicy = p
		}
	}
}

// WithRequestInterceptor appends an interceptor run on every outgoing request.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(cfg *internalConfig) {
		if i != nil {
			cfg.Interceptors.AddRequestInterceptor(i)
		}
	}
}

// WithResponseInterceptor appends an interceptor run on every response,
// redirect hops included.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(cfg *internalConfig) {
		if i != nil {
			cfg.Interceptors.AddResponseInterceptor(i)
		}
	}
}

// WithCrossHostCredentials keeps Authorization and Cookie headers on hops
// whose host is outside the domain the operation started on. By default
// they are dropped, matching net/http's own redirect handling.
func WithCrossHostCredentials(allow bool) Option {
	return func(cfg *internalConfig) {
		cfg.CrossHostCredentials = allow
	}
}

// WithNetworkTrace toggles httptrace span events and the connection, DNS,
// TLS and time-to-first-byte histograms. Enabled by default.
func WithNetworkTrace(enabled bool) Option {
	return func(cfg *internalConfig) {
		cfg.NetworkTrace = enabled
	}
}

// WithTransport replaces the bottom of the transport chain. Retry, breaker
// and telemetry layers are still stacked on top of rt.
func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *internalConfig) {
		cfg.Transport = rt
	}
}
