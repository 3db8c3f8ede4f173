package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/kroma-labs/resourceful-go/example/redirects/internal/config"
	"github.com/kroma-labs/resourceful-go/example/redirects/internal/telemetry"
	"github.com/kroma-labs/resourceful-go/httpclient"
	"github.com/kroma-labs/resourceful-go/resource"
	"github.com/kroma-labs/resourceful-go/resourcetest"
)

func main() {
	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup otel")
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("telemetry shutdown")
		}
	}()

	metricsServer := &http.Server{Addr: config.MetricsPort, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info().Str("addr", config.MetricsPort).Msg("starting prometheus metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	upstream := resourcetest.NewServer(resourcetest.WithLogger(logger))
	defer upstream.Close()

	collector, err := resource.NewRedirectCollector(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register redirect collector")
	}

	client := httpclient.New(
		httpclient.WithServiceName(config.ServiceName),
		httpclient.WithLogger(logger),
		httpclient.WithRetryConfig(httpclient.RetryConfig{
			MaxRetries:      config.RetryCount,
			InitialInterval: 50 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
		}),
		httpclient.WithBreakerConfig(httpclient.DefaultBreakerConfig()),
	)

	// /redirect/302 -> /redirect/301 -> /flaky/1: a temporary hop, then a
	// permanent one seen by the delegate, then a retried 503.
	permanent := upstream.URL("/redirect/301?" + upstream.URL("/flaky/1"))
	start := upstream.URL("/redirect/302?" + permanent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(config.OperationInterval)
	defer ticker.Stop()

	logger.Info().Msg("redirect example started, metrics on http://localhost:2112/metrics")

	tracer := otel.Tracer("example-app")

	for {
		select {
		case <-ticker.C:
			ctx, span := tracer.Start(ctx, "fetch")

			res := client.Resource(start, resource.WithLogger(logger), resource.WithMaxRedirects(config.MaxRedirects))
			res.OnRedirect(resource.Chain(collector.Observe, func(req resource.Request, resp resource.Response) error {
				logger.Info().
					Str("method", req.Method()).
					Int("status", resp.Code()).
					Bool("permanent", resp.IsPermanentRedirect()).
					Msg("redirect")
				return nil
			}))

			resp, err := res.Get(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("fetch failed")
			} else {
				logger.Info().
					Int("status", resp.Code()).
					Str("effective_uri", res.EffectiveURI()).
					Msg("fetched")
				if c, ok := resp.(io.Closer); ok {
					_ = c.Close()
				}
			}

			span.End()

		case <-sigChan:
			logger.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown")
			}
			return
		}
	}
}
