package resource

import (
	"errors"
	"fmt"
)

// ErrMissingLocation is returned when a redirect that should be followed
// carries no usable Location header.
var ErrMissingLocation = errors.New("resource: redirect response missing Location header")

// TooManyRedirectsError is returned when an operation crosses the hop
// limit configured with WithMaxRedirects.
type TooManyRedirectsError struct {
	Limit int
	Via   []string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("resource: stopped after %d redirects (limit: %d)", len(e.Via)-1, e.Limit)
}

// RedirectLoopError is returned when a redirect points at a URI that was
// already visited by the same operation.
type RedirectLoopError struct {
	URI string
	Via []string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("resource: redirect loop detected at %s (after %d redirects)", e.URI, len(e.Via)-1)
}
