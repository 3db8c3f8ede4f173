package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
)

// RetryClassifier reports whether a round trip outcome should be retried.
type RetryClassifier func(resp *http.Response, err error) bool

// DefaultClassifier retries transient network failures and the statuses 429,
// 502, 503 and 504. Redirects and other responses below 400 are final.
// Cancellation and permanent failures such as certificate errors are never
// retried.
func DefaultClassifier(resp *http.Response, err error) bool {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return false
		case isPermanentError(err):
			return false
		default:
			return true
		}
	}

	return resp != nil && isRetryableStatusCode(resp.StatusCode)
}

// StatusCodeClassifier retries on the listed statuses and on transient
// network errors.
func StatusCodeClassifier(codes ...int) RetryClassifier {
	codeSet := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		codeSet[code] = struct{}{}
	}

	return func(resp *http.Response, err error) bool {
		if err != nil {
			return isRetryableNetworkError(err) && !isPermanentError(err)
		}
		if resp == nil {
			return false
		}
		_, ok := codeSet[resp.StatusCode]
		return ok
	}
}

func NeverRetryClassifier() RetryClassifier {
	return func(_ *http.Response, _ error) bool {
		return false
	}
}

func isRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func isRetryableNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, io.EOF) {
		return true
	}

	return containsAny(err, "connection refused", "connection reset", "no such host",
		"network is down", "network unreachable", "i/o timeout", "temporary failure",
		"server closed", "broken pipe", "eof")
}

func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return true
	}

	if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EHOSTDOWN) {
		return true
	}

	if errors.Is(err, ErrUnreplayableBody) {
		return true
	}

	return containsAny(err, "x509:", "certificate", "tls:", "protocol error",
		"no route to host", "permission denied")
}

func containsAny(err error, patterns ...string) bool {
	errStr := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
