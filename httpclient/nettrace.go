package httpclient

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// networkTrace collects connection timings for one round trip. Dial
// callbacks can fire from several goroutines, hence the mutex.
type networkTrace struct {
	mu sync.Mutex

	dnsStart, dnsDone         time.Time
	connectStart, connectDone time.Time
	tlsStart, tlsDone         time.Time
	gotConn                   time.Time
	wroteRequest              time.Time
	firstByte                 time.Time

	dnsAddrs   []string
	reused     bool
	wasIdle    bool
	remoteAddr string
	negotiated string
}

func (nt *networkTrace) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			nt.mark(&nt.dnsStart)
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			nt.mu.Lock()
			defer nt.mu.Unlock()
			nt.dnsDone = time.Now()
			nt.dnsAddrs = nt.dnsAddrs[:0]
			for _, a := range info.Addrs {
				nt.dnsAddrs = append(nt.dnsAddrs, a.String())
			}
		},
		ConnectStart: func(_, _ string) {
			nt.mu.Lock()
			defer nt.mu.Unlock()
			// Keep the first dial when several addresses are raced.
			if nt.connectStart.IsZero() {
				nt.connectStart = time.Now()
			}
		},
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				nt.mark(&nt.connectDone)
			}
		},
		TLSHandshakeStart: func() {
			nt.mark(&nt.tlsStart)
		},
		TLSHandshakeDone: func(state tls.ConnectionState, _ error) {
			nt.mu.Lock()
			defer nt.mu.Unlock()
			nt.tlsDone = time.Now()
			nt.negotiated = state.NegotiatedProtocol
		},
		GotConn: func(info httptrace.GotConnInfo) {
			nt.mu.Lock()
			defer nt.mu.Unlock()
			nt.gotConn = time.Now()
			nt.reused = info.Reused
			nt.wasIdle = info.WasIdle
			if info.Conn != nil && info.Conn.RemoteAddr() != nil {
				nt.remoteAddr = info.Conn.RemoteAddr().String()
			}
		},
		WroteRequest: func(httptrace.WroteRequestInfo) {
			nt.mark(&nt.wroteRequest)
		},
		GotFirstResponseByte: func() {
			nt.mark(&nt.firstByte)
		},
	}
}

func (nt *networkTrace) mark(t *time.Time) {
	nt.mu.Lock()
	*t = time.Now()
	nt.mu.Unlock()
}

func spanned(start, end time.Time) (time.Duration, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	return end.Sub(start), true
}

// addEvents writes the collected phases onto the hop's span.
func (nt *networkTrace) addEvents(span trace.Span) {
	if !span.IsRecording() {
		return
	}
	nt.mu.Lock()
	defer nt.mu.Unlock()

	if d, ok := spanned(nt.dnsStart, nt.dnsDone); ok {
		span.AddEvent("dns.done", trace.WithTimestamp(nt.dnsDone), trace.WithAttributes(
			attribute.Int64("dns.duration_ms", d.Milliseconds()),
			attribute.StringSlice("dns.addresses", nt.dnsAddrs),
		))
	}
	if d, ok := spanned(nt.connectStart, nt.connectDone); ok {
		span.AddEvent("connect.done", trace.WithTimestamp(nt.connectDone), trace.WithAttributes(
			attribute.Int64("connect.duration_ms", d.Milliseconds()),
		))
	}
	if d, ok := spanned(nt.tlsStart, nt.tlsDone); ok {
		span.AddEvent("tls.done", trace.WithTimestamp(nt.tlsDone), trace.WithAttributes(
			attribute.Int64("tls.duration_ms", d.Milliseconds()),
			attribute.String("tls.protocol", nt.negotiated),
		))
	}
	if !nt.gotConn.IsZero() {
		span.AddEvent("got_conn", trace.WithTimestamp(nt.gotConn), trace.WithAttributes(
			attribute.Bool("connection.reused", nt.reused),
			attribute.Bool("connection.was_idle", nt.wasIdle),
			attribute.String("network.peer.address", nt.remoteAddr),
		))
	}
	if !nt.wroteRequest.IsZero() {
		span.AddEvent("wrote_request", trace.WithTimestamp(nt.wroteRequest))
	}
	if d, ok := spanned(nt.wroteRequest, nt.firstByte); ok {
		span.AddEvent("got_first_response_byte", trace.WithTimestamp(nt.firstByte), trace.WithAttributes(
			attribute.Int64("ttfb_ms", d.Milliseconds()),
		))
	}
}

func (nt *networkTrace) recordMetrics(ctx context.Context, m *metrics, attrs []attribute.KeyValue) {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	if !nt.reused && !nt.connectDone.IsZero() {
		m.recordConnectionOpened(ctx, attrs)
	}
	if d, ok := spanned(nt.dnsStart, nt.dnsDone); ok {
		m.recordDNSDuration(ctx, d, attrs)
	}
	if d, ok := spanned(nt.connectStart, nt.connectDone); ok {
		m.recordConnectionDuration(ctx, d, attrs)
	}
	if d, ok := spanned(nt.tlsStart, nt.tlsDone); ok {
		m.recordTLSDuration(ctx, d, attrs)
	}
	if d, ok := spanned(nt.wroteRequest, nt.firstByte); ok {
		m.recordTTFB(ctx, d, attrs)
	}
}
