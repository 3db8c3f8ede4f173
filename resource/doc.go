// Package resource models a remote, addressable resource that is read and
// written over a request/response protocol and that follows redirects on
// its own.
//
// A Resource holds a shared Accessor (the transport context) and an
// effective URI. Every public operation funnels through one of two entry
// points, DoReadRequest and DoWriteRequest, which build a Request through
// the Accessor, inspect its Response and resolve redirects before handing
// the final Response back to the caller.
//
// # Quick Start
//
//	client := httpclient.New(httpclient.WithServiceName("catalog"))
//	res := resource.New(client, "https://api.example.com/items/42")
//
//	resp, err := res.Get(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Code(), res.EffectiveURI())
//
// # Redirect Semantics
//
// Permanent and temporary redirects mutate state differently:
//
//   - Permanent (e.g. 301, 308): the Resource adopts the Location as its
//     new effective URI and re-issues the same request against itself.
//     Later calls on the same Resource go straight to the new URI.
//   - Temporary (e.g. 302, 303, 307): the Resource is left untouched. A new
//     Resource sharing the same Accessor is created for the Location and
//     the original operation is delegated to it.
//
// A redirect is followed only when the Request reports that it should be
// redirected. Otherwise the redirect Response itself is returned.
//
// # Observing Redirects
//
// A single callback can be registered per Resource. It runs synchronously
// for every followed hop, before the hop is taken:
//
//	res.OnRedirect(func(req resource.Request, resp resource.Response) error {
//	    log.Printf("%s redirected with %d", req.Method(), resp.Code())
//	    return nil
//	})
//
// Returning an error aborts the resolution and the error is returned from
// the operation unchanged. Use Chain to register several observers, e.g.
// a RedirectCollector exporting Prometheus counters.
//
// # Hop Limits
//
// Resolution of one operation is bounded by WithMaxRedirects (default 10)
// and stops with a *RedirectLoopError when a URI is revisited:
//
//	_, err := res.Get(ctx)
//	var tooMany *resource.TooManyRedirectsError
//	if errors.As(err, &tooMany) {
//	    // redirect chain exceeded the limit
//	}
//
// # Observability
//
// Each operation opens an OpenTelemetry client span ("Resource GET") and
// records a "redirect" event per hop together with the
// resource.redirects counter. Hops are logged at debug level through the
// zerolog.Logger given to WithLogger.
package resource
