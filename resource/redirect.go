package resource

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const locationHeader = "Location"

// attempt is what gets replayed on every hop: the method and, on the
// write path, the body.
type attempt struct {
	method string
	body   any
}

// chain carries hop accounting through one operation, including into
// delegate resources.
type chain struct {
	limit   int
	via     []string
	visited map[string]struct{}
}

func newChain(start string, limit int) *chain {
	return &chain{
		limit:   limit,
		via:     []string{start},
		visited: map[string]struct{}{start: {}},
	}
}

func (c *chain) hops() int {
	return len(c.via) - 1
}

// visit admits the next hop to uri or reports why it must not be taken.
func (c *chain) visit(uri string) error {
	if c.limit > 0 && c.hops() >= c.limit {
		return &TooManyRedirectsError{Limit: c.limit, Via: append([]string(nil), c.via...)}
	}
	if _, seen := c.visited[uri]; seen {
		return &RedirectLoopError{URI: uri, Via: append([]string(nil), c.via...)}
	}
	c.via = append(c.via, uri)
	c.visited[uri] = struct{}{}
	return nil
}

func (r *Resource) do(ctx context.Context, a attempt) (Response, error) {
	start := r.EffectiveURI()

	ctx, span := r.cfg.tracer.Start(ctx, "Resource "+a.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", a.method),
			attribute.String("resource.uri", start),
		),
	)
	defer span.End()

	ctx = withOrigin(ctx, start)
	c := newChain(start, r.cfg.maxRedirects)
	resp, err := r.resolve(ctx, a, c)

	r.cfg.metrics.recordChainLength(ctx, a.method, c.hops())
	span.SetAttributes(attribute.Int("resource.redirect.count", c.hops()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.Code()),
		attribute.String("resource.effective_uri", r.EffectiveURI()),
	)
	return resp, nil
}

// resolve runs attempts against r until a terminal Response is reached.
// Permanent redirects loop here; temporary ones recurse into a delegate.
func (r *Resource) resolve(ctx context.Context, a attempt, c *chain) (Response, error) {
	for {
		req, err := r.accessor.NewRequest(ctx, a.method, r, a.body)
		if err != nil {
			return nil, err
		}

		resp, err := req.Response()
		if err != nil {
			return nil, err
		}

		if !resp.IsRedirect() {
			return resp, nil
		}
		if r.cfg.maxRedirects < 0 || !req.ShouldBeRedirected() {
			return resp, nil
		}

		from := r.EffectiveURI()
		to, err := redirectLocation(from, resp)
		if err != nil {
			discardBody(resp)
			return nil, err
		}
		if err := c.visit(to); err != nil {
			discardBody(resp)
			return nil, err
		}

		if cb, ok := r.RedirectCallback(); ok {
			if err := cb(req, resp); err != nil {
				discardBody(resp)
				return nil, err
			}
		}

		permanent := resp.IsPermanentRedirect()
		r.recordHop(ctx, a.method, from, to, resp.Code(), permanent)
		discardBody(resp)

		if !permanent {
			return r.delegate(to).resolve(ctx, a, c)
		}
		r.setEffectiveURI(to)
	}
}

func (r *Resource) recordHop(ctx context.Context, method, from, to string, status int, permanent bool) {
	r.cfg.logger.Debug().
		Str("method", method).
		Str("from", from).
		Str("to", to).
		Int("status", status).
		Bool("permanent", permanent).
		Msg("following redirect")

	trace.SpanFromContext(ctx).AddEvent("redirect", trace.WithAttributes(
		attribute.String("redirect.from", from),
		attribute.String("redirect.to", to),
		attribute.Int("http.response.status_code", status),
		attribute.Bool("redirect.permanent", permanent),
	))

	r.cfg.metrics.recordRedirect(ctx, method, permanent)
}

// redirectLocation takes the first Location value of resp. Relative
// references are resolved against base per RFC 3986; absolute ones are
// returned verbatim.
func redirectLocation(base string, resp Response) (string, error) {
	values := resp.Header()[locationHeader]
	if len(values) == 0 || values[0] == "" {
		return "", ErrMissingLocation
	}
	location := values[0]

	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("resource: malformed redirect location %q: %w", location, err)
	}
	if ref.IsAbs() {
		return location, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return location, nil
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// discardBody releases a redirect Response that is about to be left
// behind, if it holds a body.
func discardBody(resp Response) {
	if closer, ok := resp.(io.Closer); ok {
		_ = closer.Close()
	}
}
