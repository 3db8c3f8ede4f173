package httpclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"
)

// coalesceHeaders take part in the key so callers with different credentials
// or representations never share a response.
var coalesceHeaders = []string{"Accept", "Accept-Encoding", "Authorization", "Cookie"}

// GenerateCoalesceKey builds a stable key for a request. Query parameters are
// sorted so their order does not matter.
func GenerateCoalesceKey(method, rawURL string, header http.Header) string {
	parts := []string{method}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		parts = append(parts, rawURL)
	} else {
		query := parsedURL.Query()
		params := make([]string, 0, len(query))
		for key, values := range query {
			sort.Strings(values)
			for _, v := range values {
				params = append(params, key+"="+v)
			}
		}
		sort.Strings(params)

		parts = append(parts,
			parsedURL.Scheme+"://"+parsedURL.Host+parsedURL.Path,
			strings.Join(params, "&"),
		)
	}

	for _, h := range coalesceHeaders {
		parts = append(parts, h+":"+strings.Join(header.Values(h), ","))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

type sharedResponse struct {
	status     string
	statusCode int
	proto      string
	protoMajor int
	protoMinor int
	header     http.Header
	body       []byte
}

func (s *sharedResponse) materialize(req *http.Request) *http.Response {
	return &http.Response{
		Status:        s.status,
		StatusCode:    s.statusCode,
		Proto:         s.proto,
		ProtoMajor:    s.protoMajor,
		ProtoMinor:    s.protoMinor,
		Header:        s.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(s.body)),
		ContentLength: int64(len(s.body)),
		Request:       req,
	}
}

// coalesceTransport lets identical concurrent GET and HEAD round trips share
// a single upstream call. Each caller gets its own copy of the response.
type coalesceTransport struct {
	next  http.RoundTripper
	cfg   *internalConfig
	group singleflight.Group
}

func newCoalesceTransport(next http.RoundTripper, cfg *internalConfig) http.RoundTripper {
	if !cfg.Coalescing {
		return next
	}
	return &coalesceTransport{next: next, cfg: cfg}
}

func (t *coalesceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !coalescable(req) {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	key := GenerateCoalesceKey(req.Method, req.URL.String(), req.Header)

	ch := t.group.DoChan(key, func() (interface{}, error) {
		// The shared call outlives any single caller's cancellation.
		shared := req.Clone(context.WithoutCancel(ctx))

		resp, err := t.next.RoundTrip(shared)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		return &sharedResponse{
			status:     resp.Status,
			statusCode: resp.StatusCode,
			proto:      resp.Proto,
			protoMajor: resp.ProtoMajor,
			protoMinor: resp.ProtoMinor,
			header:     resp.Header,
			body:       body,
		}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			t.cfg.Metrics.recordCoalesced(ctx, t.cfg.baseAttributes())
		}
		return res.Val.(*sharedResponse).materialize(req), nil
	}
}

func coalescable(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody
}
