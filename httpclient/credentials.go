package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/kroma-labs/resourceful-go/resource"
)

// sensitiveHeaders are never sent to a host outside the origin's domain,
// the same set net/http drops when it follows a redirect itself.
var sensitiveHeaders = []string{"Authorization", "Www-Authenticate", "Cookie", "Cookie2"}

// leavesOrigin reports whether target is outside the domain of the URI the
// resource operation started from. Without a known origin it reports false.
func (c *Client) leavesOrigin(ctx context.Context, target *url.URL) bool {
	origin, ok := resource.OriginURI(ctx)
	if !ok {
		return false
	}
	resolved, err := c.resolveURL(origin)
	if err != nil {
		return false
	}
	u, err := url.Parse(resolved)
	if err != nil || u.Host == "" {
		return false
	}
	return !isDomainOrSubdomain(strings.ToLower(target.Hostname()), strings.ToLower(u.Hostname()))
}

// isDomainOrSubdomain reports whether sub is parent or a subdomain of it.
// IP addresses only match themselves.
func isDomainOrSubdomain(sub, parent string) bool {
	if sub == parent {
		return true
	}
	if parent == "" || net.ParseIP(sub) != nil || strings.ContainsAny(sub, ":%") {
		return false
	}
	if !strings.HasSuffix(sub, parent) {
		return false
	}
	return sub[len(sub)-len(parent)-1] == '.'
}

func stripSensitiveHeaders(h http.Header) []string {
	var dropped []string
	for _, k := range sensitiveHeaders {
		if _, ok := h[k]; ok {
			dropped = append(dropped, k)
			h.Del(k)
		}
	}
	return dropped
}
