package httpclient

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestInterceptor mutates an outgoing request before it is sent. It runs
// once per redirect hop, so a redirect to another host sees it again.
// Credentials it sets are dropped on hops that leave the origin domain
// unless WithCrossHostCredentials(true) is given; HostScopedInterceptor
// narrows an interceptor to one host explicitly.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor inspects a response after receipt, once per hop and
// before the resource decides whether to follow it. A non-nil error fails
// the hop and the response body is closed.
//
// Common use cases:
//   - Response logging
//   - Rejecting redirects to unexpected hosts
//   - Turning error statuses into Go errors
type ResponseInterceptor func(resp *http.Response, req *http.Request) error

// InterceptorChain holds request and response interceptors. Both run in
// the order they were added.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain returns an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends i to the request interceptors.
func (c *InterceptorChain) AddRequestInterceptor(i RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, i)
}

// AddResponseInterceptor appends i to the response interceptors.
func (c *InterceptorChain) AddResponseInterceptor(i ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, i)
}

// ApplyRequestInterceptors runs the request interceptors, stopping at the
// first error.
func (c *InterceptorChain) ApplyRequestInterceptors(req *http.Request) error {
	for _, intercept := range c.requestInterceptors {
		if err := intercept(req); err != nil {
			return err
		}
	}
	return nil
}

// ApplyResponseInterceptors runs the response interceptors, stopping at the
// first error.
func (c *InterceptorChain) ApplyResponseInterceptors(resp *http.Response, req *http.Request) error {
	for _, intercept := range c.responseInterceptors {
		if err := intercept(resp, req); err != nil {
			return err
		}
	}
	return nil
}

// AuthBearerInterceptor sets "Authorization: Bearer <token>".
func AuthBearerInterceptor(token string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// AuthBearerFuncInterceptor fetches the token on every request.
func AuthBearerFuncInterceptor(tokenFunc func() (string, error)) RequestInterceptor {
	return func(req *http.Request) error {
		token, err := tokenFunc()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// APIKeyInterceptor sets headerName to apiKey. The header is not one of the
// credentials dropped on cross-host hops; wrap it in HostScopedInterceptor
// when redirects may leave the API host.
func APIKeyInterceptor(headerName, apiKey string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set(headerName, apiKey)
		return nil
	}
}

// HostScopedInterceptor applies next only to requests whose host equals host,
// compared case-insensitively and including the port if given.
func HostScopedInterceptor(host string, next RequestInterceptor) RequestInterceptor {
	return func(req *http.Request) error {
		if !strings.EqualFold(req.URL.Host, host) {
			return nil
		}
		return next(req)
	}
}

func newRequestID() string {
	return uuid.NewString()
}
