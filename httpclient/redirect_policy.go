package httpclient

import "net/http"

// RedirectPolicy decides whether a redirect response to a request made with
// method should be followed.
type RedirectPolicy func(method string, resp *http.Response) bool

// DefaultRedirectPolicy follows every redirect of a GET or HEAD. Other
// methods are followed only on 307 and 308, which guarantee the method and
// body are preserved. A 301, 302 or 303 to a write is returned to the caller.
func DefaultRedirectPolicy(method string, resp *http.Response) bool {
	if resp == nil {
		return false
	}

	switch method {
	case http.MethodGet, http.MethodHead:
		return true
	}

	return resp.StatusCode == http.StatusTemporaryRedirect ||
		resp.StatusCode == http.StatusPermanentRedirect
}

// AlwaysRedirectPolicy follows every redirect regardless of method.
func AlwaysRedirectPolicy(_ string, _ *http.Response) bool {
	return true
}

// NeverRedirectPolicy returns every redirect to the caller.
func NeverRedirectPolicy(_ string, _ *http.Response) bool {
	return false
}
