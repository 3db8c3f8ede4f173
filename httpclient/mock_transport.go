package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// MockTransport is an http.RoundTripper returning canned responses, for
// testing code built on Client without a network.
//
//	mock := httpclient.NewMockTransport().
//	    StubRedirect("/old", http.StatusMovedPermanently, "/new").
//	    StubPath("/new", http.StatusOK, `{"ok":true}`)
//	client := httpclient.New(httpclient.WithMockTransport(mock))
//
// Stubs are matched in registration order. A stub registered with Times
// stops matching once used up, which makes sequences easy to express.
type MockTransport struct {
	mu          sync.Mutex
	stubs       []*stub
	defaultResp *http.Response
	defaultErr  error
	requests    []*http.Request
}

type stub struct {
	matcher   func(*http.Request) bool
	response  *http.Response
	err       error
	remaining int // <0 means unlimited
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// WithMockTransport installs mock as the base transport.
func WithMockTransport(mock *MockTransport) Option {
	return WithTransport(mock)
}

// StubResponse sets the response for requests no stub matches.
func (m *MockTransport) StubResponse(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = newStubResponse(statusCode, nil, body)
	return m
}

// StubError sets the error for requests no stub matches.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
	return m
}

func (m *MockTransport) StubPath(path string, statusCode int, body string) *MockTransport {
	return m.StubFunc(matchPath(path), statusCode, nil, body)
}

// StubRedirect answers requests for path with a redirect to location.
func (m *MockTransport) StubRedirect(path string, statusCode int, location string) *MockTransport {
	header := http.Header{"Location": []string{location}}
	return m.StubFunc(matchPath(path), statusCode, header, "")
}

func (m *MockTransport) StubFunc(
	matcher func(*http.Request) bool,
	statusCode int,
	header http.Header,
	body string,
) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, &stub{
		matcher:   matcher,
		response:  newStubResponse(statusCode, header, body),
		remaining: -1,
	})
	return m
}

func (m *MockTransport) StubFuncError(matcher func(*http.Request) bool, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, &stub{matcher: matcher, err: err, remaining: -1})
	return m
}

// Times limits the most recently registered stub to n uses.
func (m *MockTransport) Times(n int) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stubs) > 0 {
		m.stubs[len(m.stubs)-1].remaining = n
	}
	return m
}

func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	for _, s := range m.stubs {
		if s.remaining == 0 || !s.matcher(req) {
			continue
		}
		if s.remaining > 0 {
			s.remaining--
		}
		if s.err != nil {
			return nil, s.err
		}
		return cloneResponse(s.response, req), nil
	}

	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	if m.defaultResp != nil {
		return cloneResponse(m.defaultResp, req), nil
	}

	return nil, errors.New("no stub found for request: " + req.Method + " " + req.URL.String())
}

func (m *MockTransport) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request{}, m.requests...)
}

func (m *MockTransport) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Paths returns "METHOD path" for every recorded request, in order.
func (m *MockTransport) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, fmt.Sprintf("%s %s", r.Method, r.URL.RequestURI()))
	}
	return out
}

func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.stubs = nil
	m.defaultResp = nil
	m.defaultErr = nil
}

func matchPath(path string) func(*http.Request) bool {
	return func(req *http.Request) bool {
		return req.URL.Path == path
	}
}

func newStubResponse(statusCode int, header http.Header, body string) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode:    statusCode,
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewBufferString(body)),
		ContentLength: int64(len(body)),
	}
}

func cloneResponse(resp *http.Response, req *http.Request) *http.Response {
	var bodyBytes []byte
	if resp.Body != nil {
		bodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	return &http.Response{
		Status:        resp.Status,
		StatusCode:    resp.StatusCode,
		Proto:         resp.Proto,
		ProtoMajor:    resp.ProtoMajor,
		ProtoMinor:    resp.ProtoMinor,
		Header:        resp.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(bodyBytes)),
		ContentLength: resp.ContentLength,
		Request:       req,
	}
}
