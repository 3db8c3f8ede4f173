package resource

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for redirect resolution.
type metrics struct {
	// redirects counts followed hops, split by permanence.
	redirects metric.Int64Counter

	// chainLength records the number of hops taken per operation.
	chainLength metric.Int64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	m.redirects, err = meter.Int64Counter(
		"resource.redirects",
		metric.WithDescription("Number of redirects followed by resources"),
		metric.WithUnit("{redirect}"),
	)
	if err != nil {
		return nil, err
	}

	m.chainLength, err = meter.Int64Histogram(
		"resource.redirect.chain_length",
		metric.WithDescription("Number of redirects followed per resource operation"),
		metric.WithUnit("{redirect}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10, 20),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metrics) recordRedirect(ctx context.Context, method string, permanent bool) {
	if m == nil || m.redirects == nil {
		return
	}
	m.redirects.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Bool("redirect.permanent", permanent),
	))
}

func (m *metrics) recordChainLength(ctx context.Context, method string, hops int) {
	if m == nil || m.chainLength == nil {
		return
	}
	m.chainLength.Record(ctx, int64(hops), metric.WithAttributes(
		attribute.String("http.request.method", method),
	))
}
