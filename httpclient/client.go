package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kroma-labs/resourceful-go/resource"
)

var _ resource.Accessor = (*Client)(nil)

// Client is an instrumented HTTP client that acts as the resource.Accessor
// for HTTP resources.
//
// The underlying http.Client never follows redirects itself. Every redirect
// is handed back as a Response so the owning resource.Resource can apply its
// permanent and temporary redirect semantics.
type Client struct {
	httpClient *http.Client

	config *internalConfig

	baseURL *url.URL
}

// New creates a Client. The transport chain, outermost first, is:
// telemetry, circuit breaker, rate limit, coalescing, retry, base transport.
func New(opts ...Option) *Client {
	cfg := newConfig(opts...)

	transport := cfg.buildTransport()

	withRetry := newRetryTransport(transport, cfg)
	withCoalescing := newCoalesceTransport(withRetry, cfg)
	withRateLimit := newRateLimitTransport(withCoalescing, cfg)
	withBreaker := newCircuitBreakerTransport(withRateLimit, cfg)
	instrumented := newOtelTransport(withBreaker, cfg)

	c := &Client{
		httpClient: &http.Client{
			Transport:     instrumented,
			Timeout:       cfg.httpConfig.Timeout,
			CheckRedirect: stopAtRedirect,
		},
		config: cfg,
	}

	if cfg.BaseURL != "" {
		if u, err := url.Parse(cfg.BaseURL); err == nil {
			c.baseURL = u
		}
	}

	return c
}

var errNilResource = errors.New("httpclient: nil resource")

func stopAtRedirect(_ *http.Request, _ []*http.Request) error {
	return http.ErrUseLastResponse
}

// HTTP returns the underlying http.Client.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// Resource returns a resource.Resource backed by this client.
func (c *Client) Resource(uri string, opts ...resource.Option) *resource.Resource {
	return resource.New(c, uri, opts...)
}

// NewRequest implements resource.Accessor. The request is prepared here and
// sent lazily on the first call to Response.
func (c *Client) NewRequest(
	ctx context.Context,
	method string,
	res *resource.Resource,
	body any,
) (resource.Request, error) {
	if res == nil {
		return nil, errNilResource
	}

	target, err := c.resolveURL(res.EffectiveURI())
	if err != nil {
		return nil, err
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	return &Request{
		client:      c,
		ctx:         ctx,
		method:      strings.ToUpper(method),
		url:         target,
		body:        payload,
		contentType: contentType,
	}, nil
}

func (c *Client) resolveURL(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("httpclient: invalid uri %q: %w", uri, err)
	}
	if u.IsAbs() || c.baseURL == nil {
		return uri, nil
	}
	return c.baseURL.ResolveReference(u).String(), nil
}
