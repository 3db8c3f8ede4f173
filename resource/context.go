package resource

import "context"

type originKey struct{}

// OriginURI returns the effective URI an operation started from. It is set
// on the context handed to Accessor.NewRequest for every hop of a redirect
// chain, temporary delegates included, so an Accessor can tell when a hop
// leaves the original host.
func OriginURI(ctx context.Context) (string, bool) {
	uri, ok := ctx.Value(originKey{}).(string)
	return uri, ok
}

func withOrigin(ctx context.Context, uri string) context.Context {
	return context.WithValue(ctx, originKey{}, uri)
}
