package httpclient

import "net/http"

// RoundTripper mirrors http.RoundTripper so a mock can be generated for it.
//
//go:generate mockery --name RoundTripper --output ./mocks --outpkg mocks --with-expecter
//go:generate mockery --name CircuitBreaker --output ./mocks --outpkg mocks --with-expecter
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}
