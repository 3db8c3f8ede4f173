package resource

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// RedirectCollector counts redirect hops in Prometheus. Its Observe
// method is a RedirectFunc.
//
// Example:
//
//	collector, err := resource.NewRedirectCollector(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	res.OnRedirect(resource.Chain(collector.Observe, audit))
type RedirectCollector struct {
	redirects *prometheus.CounterVec
}

// NewRedirectCollector creates a collector and registers it with reg.
// Registering twice against the same registry reuses the existing
// counter.
func NewRedirectCollector(reg prometheus.Registerer) (*RedirectCollector, error) {
	redirects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resource",
		Name:      "redirects_total",
		Help:      "Number of redirect hops observed, by method, status code and permanence.",
	}, []string{"method", "code", "permanent"})

	if err := reg.Register(redirects); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		redirects = existing
	}

	return &RedirectCollector{redirects: redirects}, nil
}

// Observe records one hop. It never fails.
func (c *RedirectCollector) Observe(req Request, resp Response) error {
	c.redirects.WithLabelValues(
		req.Method(),
		strconv.Itoa(resp.Code()),
		strconv.FormatBool(resp.IsPermanentRedirect()),
	).Inc()
	return nil
}
