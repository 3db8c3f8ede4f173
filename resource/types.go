package resource

import "context"

//go:generate mockery --name Accessor --output ./mocks --outpkg mocks --with-expecter
//go:generate mockery --name Request --output ./mocks --outpkg mocks --with-expecter
//go:generate mockery --name Response --output ./mocks --outpkg mocks --with-expecter

// Accessor is the transport context shared by a Resource and every
// Resource it delegates temporary redirects to. The Resource never
// mutates it.
type Accessor interface {
	// NewRequest builds the Request for one attempt of method against the
	// current effective URI of res. body is nil on the read path.
	NewRequest(ctx context.Context, method string, res *Resource, body any) (Request, error)
}

// Request is a single attempt. It lives no longer than the call that
// created it.
type Request interface {
	// Method returns the request method, e.g. "GET".
	Method() string

	// Response performs the exchange on first call and returns the same
	// result on every later call.
	Response() (Response, error)

	// ShouldBeRedirected reports whether a redirect Response to this
	// Request may be followed.
	ShouldBeRedirected() bool
}

// Response is the outcome of a Request.
type Response interface {
	// Code returns the status code.
	Code() int

	// Header returns the response headers keyed by case-sensitive name.
	Header() map[string][]string

	IsRedirect() bool
	IsPermanentRedirect() bool
}

// RedirectFunc observes a redirect hop before it is followed. A non-nil
// error aborts redirect resolution and is returned to the caller as is.
type RedirectFunc func(req Request, resp Response) error

// Chain combines several RedirectFuncs into one. They run in order and
// the first error stops the chain. Nil entries are skipped.
func Chain(fns ...RedirectFunc) RedirectFunc {
	return func(req Request, resp Response) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(req, resp); err != nil {
				return err
			}
		}
		return nil
	}
}
