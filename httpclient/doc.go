// Package httpclient is the HTTP accessor for resource.Resource: an
// instrumented client with retries, circuit breaking, rate limiting and
// request coalescing that hands every redirect back to the resource instead
// of following it itself.
//
// # Features
//
//   - OpenTelemetry tracing, one client span per round trip (so one per redirect hop)
//   - OpenTelemetry metrics for latency, body sizes, errors, retries and breaker state
//   - httptrace span events and histograms for dial, DNS, TLS and time to first byte
//   - Retries with exponential, linear, decorrelated jitter or tiered backoff
//     and Retry-After support
//   - Circuit breaking via gobreaker, optionally per host and shared through Redis
//   - Token bucket rate limiting
//   - Coalescing of identical concurrent GET and HEAD requests
//   - Request and response interceptors that run on every hop
//   - X-Request-ID stamping, debug logging and curl generation
//
// # Quick Start
//
//	client := httpclient.New(
//	    httpclient.WithServiceName("catalog"),
//	    httpclient.WithRetryConfig(httpclient.DefaultRetryConfig()),
//	)
//
//	res := client.Resource("https://api.example.com/items/42")
//	resp, err := res.Get(ctx)
//	if err != nil {
//	    return err
//	}
//	var item Item
//	err = resp.(*httpclient.Response).Decode(&item)
//
// # Redirects
//
// The underlying http.Client never follows redirects. Response.IsRedirect
// is true for 301, 302, 303, 307 and 308, Response.IsPermanentRedirect for
// 301 and 308. Whether a redirect is followed is decided per request by the
// RedirectPolicy:
//
//	// default: GET and HEAD follow everything, other methods only 307 and 308
//	httpclient.WithRedirectPolicy(httpclient.DefaultRedirectPolicy)
//
//	// follow everything, replaying method and body
//	httpclient.WithRedirectPolicy(httpclient.AlwaysRedirectPolicy)
//
// Because the resource drives the redirect loop, a permanent redirect updates
// the resource's effective URI while a temporary one leaves it untouched. See
// package resource for details.
//
// Default headers and request interceptors run on every hop. When a hop
// leaves the domain the operation started on, Authorization, Cookie and the
// other credentials net/http guards are removed. Opt out with
// WithCrossHostCredentials(true), or scope custom headers with
// HostScopedInterceptor:
//
//	httpclient.WithRequestInterceptor(
//	    httpclient.HostScopedInterceptor("api.example.com",
//	        httpclient.APIKeyInterceptor("X-API-Key", key)),
//	)
//
// Response interceptors see every hop before the resource follows it:
//
//	httpclient.WithResponseInterceptor(func(resp *http.Response, req *http.Request) error {
//	    if loc, _ := resp.Location(); loc != nil && loc.Scheme != "https" {
//	        return errInsecureRedirect
//	    }
//	    return nil
//	})
//
// # Request Bodies
//
// A body is sent again on every redirect hop, so it must be replayable: nil,
// string, []byte, url.Values, *Multipart, an io.ReadSeeker or any
// JSON-encodable value. A plain io.Reader is rejected with
// ErrUnreplayableBody.
//
//	body := httpclient.NewMultipart().
//	    Field("title", "Q4").
//	    File("document", "/tmp/report.pdf")
//	resp, err := res.Post(ctx, body)
//
// # Configuration Presets
//
//	httpclient.WithConfig(httpclient.HighThroughputConfig())
//	httpclient.WithConfig(httpclient.LowLatencyConfig())
//	httpclient.WithConfig(httpclient.ConservativeConfig())
//
// # Resilience
//
// Retries apply to a single round trip and never to a redirect response:
//
//	httpclient.WithRetryConfig(httpclient.RetryConfig{
//	    MaxRetries:      3,
//	    InitialInterval: 100 * time.Millisecond,
//	    MaxInterval:     2 * time.Second,
//	    Multiplier:      2,
//	})
//
// Other backoff strategies plug in through a constructor, called once per
// round trip:
//
//	httpclient.WithRetryBackOff(func() backoff.BackOff {
//	    return httpclient.NewDecorrelatedJitterBackOff()
//	})
//
// Circuit breaking, distributed through Redis:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	cfg := httpclient.DistributedBreakerConfig(httpclient.NewRedisStore(rdb))
//	cfg.PerHost = true
//	client := httpclient.New(httpclient.WithBreakerConfig(cfg))
//
// # Testing
//
// MockTransport returns canned responses, including redirects:
//
//	mock := httpclient.NewMockTransport().
//	    StubRedirect("/old", http.StatusMovedPermanently, "/new").
//	    StubPath("/new", http.StatusOK, "ok")
//	client := httpclient.New(
//	    httpclient.WithMockTransport(mock),
//	    httpclient.WithBaseURL("http://api.test"),
//	)
//
// For a real server with redirect endpoints see package resourcetest.
package httpclient
