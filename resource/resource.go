package resource

import (
	"context"
	"net/http"
	"sync"
)

// Resource is a remote resource identified by its effective URI.
//
// The effective URI changes only when a permanent redirect is followed.
// Temporary redirects are resolved by a separate Resource and leave this
// one untouched.
//
// Create a Resource using New():
//
//	res := resource.New(client, "https://api.example.com/items/42")
//	resp, err := res.Get(ctx)
type Resource struct {
	// accessor is shared with delegates and never mutated.
	accessor Accessor

	// cfg is shared with delegates and read-only after New.
	cfg *config

	mu           sync.RWMutex
	effectiveURI string
	onRedirect   RedirectFunc
}

// New creates a Resource for uri. Neither argument is validated; both
// are the Accessor's concern.
func New(accessor Accessor, uri string, opts ...Option) *Resource {
	return &Resource{
		accessor:     accessor,
		cfg:          newConfig(opts...),
		effectiveURI: uri,
	}
}

// delegate builds the Resource a temporary redirect is handed to. It
// shares the accessor and configuration and inherits the callback.
func (r *Resource) delegate(uri string) *Resource {
	cb, _ := r.RedirectCallback()
	return &Resource{
		accessor:     r.accessor,
		cfg:          r.cfg,
		effectiveURI: uri,
		onRedirect:   cb,
	}
}

// Accessor returns the accessor the Resource was created with.
func (r *Resource) Accessor() Accessor {
	return r.accessor
}

// EffectiveURI returns the current identity of the resource.
func (r *Resource) EffectiveURI() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.effectiveURI
}

// URI is an alias of EffectiveURI.
func (r *Resource) URI() string {
	return r.EffectiveURI()
}

func (r *Resource) setEffectiveURI(uri string) {
	r.mu.Lock()
	r.effectiveURI = uri
	r.mu.Unlock()
}

// OnRedirect registers fn as the redirect callback, replacing any
// previous one, and returns it. A nil fn registers nothing and returns
// the current callback, which may be nil.
func (r *Resource) OnRedirect(fn RedirectFunc) RedirectFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn != nil {
		r.onRedirect = fn
	}
	return r.onRedirect
}

// RedirectCallback returns the registered callback. ok is false when none
// is registered.
func (r *Resource) RedirectCallback() (fn RedirectFunc, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onRedirect, r.onRedirect != nil
}

// Get reads the resource.
func (r *Resource) Get(ctx context.Context) (Response, error) {
	return r.DoReadRequest(ctx, http.MethodGet)
}

// Head reads the resource headers.
func (r *Resource) Head(ctx context.Context) (Response, error) {
	return r.DoReadRequest(ctx, http.MethodHead)
}

// Delete deletes the resource. It takes the read path: no body is sent.
func (r *Resource) Delete(ctx context.Context) (Response, error) {
	return r.DoReadRequest(ctx, http.MethodDelete)
}

// Post sends data to the resource.
func (r *Resource) Post(ctx context.Context, data any) (Response, error) {
	return r.DoWriteRequest(ctx, http.MethodPost, data)
}

// Put replaces the resource with data.
func (r *Resource) Put(ctx context.Context, data any) (Response, error) {
	return r.DoWriteRequest(ctx, http.MethodPut, data)
}

// Patch partially updates the resource with data.
func (r *Resource) Patch(ctx context.Context, data any) (Response, error) {
	return r.DoWriteRequest(ctx, http.MethodPatch, data)
}

// DoReadRequest issues a body-less request with method and resolves
// redirects, returning the final Response.
func (r *Resource) DoReadRequest(ctx context.Context, method string) (Response, error) {
	return r.do(ctx, attempt{method: method})
}

// DoWriteRequest issues a request with method and data and resolves
// redirects, returning the final Response. data is sent again on every
// hop that is followed.
func (r *Resource) DoWriteRequest(ctx context.Context, method string, data any) (Response, error) {
	return r.do(ctx, attempt{method: method, body: data})
}
