package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kroma-labs/resourceful-go/resource"
)

var _ resource.Request = (*Request)(nil)

// Request is a single prepared HTTP exchange. It is sent at most once, on the
// first call to Response, and the outcome is memoized.
type Request struct {
	client *Client
	ctx    context.Context

	method      string
	url         string
	body        []byte
	contentType string

	once sync.Once
	resp *Response
	err  error
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.method
}

// URL returns the absolute target of this request.
func (r *Request) URL() string {
	return r.url
}

// Response sends the request if it has not been sent yet.
func (r *Request) Response() (resource.Response, error) {
	resp, err := r.Do()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Do is Response with the concrete type.
func (r *Request) Do() (*Response, error) {
	r.once.Do(func() {
		r.resp, r.err = r.send()
	})
	return r.resp, r.err
}

// ShouldBeRedirected applies the client's RedirectPolicy to the response,
// sending the request first if needed. A failed exchange is never redirected.
func (r *Request) ShouldBeRedirected() bool {
	resp, err := r.Do()
	if err != nil || resp == nil {
		return false
	}
	return r.client.config.RedirectPolicy(r.method, resp.raw)
}

func (r *Request) send() (*Response, error) {
	cfg := r.client.config

	var reqBody io.Reader
	if r.body != nil {
		reqBody = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(r.ctx, r.method, r.url, reqBody)
	if err != nil {
		return nil, err
	}

	for k, vs := range cfg.DefaultHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.RequestIDHeader != "" && req.Header.Get(cfg.RequestIDHeader) == "" {
		req.Header.Set(cfg.RequestIDHeader, newRequestID())
	}

	if err := cfg.Interceptors.ApplyRequestInterceptors(req); err != nil {
		return nil, err
	}

	if !cfg.CrossHostCredentials && r.client.leavesOrigin(r.ctx, req.URL) {
		if dropped := stripSensitiveHeaders(req.Header); len(dropped) > 0 {
			cfg.Logger.Debug().
				Str("host", req.URL.Host).
				Strs("headers", dropped).
				Msg("dropping credentials for foreign host")
		}
	}

	if cfg.Debug {
		logRequest(cfg.Logger, req)
	}

	start := time.Now()

	//nolint:bodyclose // closed via Response
	httpResp, err := r.client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		logResponse(cfg.Logger, httpResp, time.Since(start))
	}

	if err := cfg.Interceptors.ApplyResponseInterceptors(httpResp, req); err != nil {
		_ = (&Response{raw: httpResp}).Close()
		return nil, err
	}

	resp := &Response{raw: httpResp, request: req}
	if cfg.GenerateCurl {
		resp.curlCommand = generateCurlCommand(req, r.body)
	}

	return resp, nil
}
