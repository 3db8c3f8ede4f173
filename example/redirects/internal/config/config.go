package config

import "time"

const (
	// Server configuration
	MetricsPort = ":2112"

	// OpenTelemetry configuration
	OTLPEndpoint   = "localhost:4317"
	ServiceName    = "resourceful-redirects-example"
	ServiceVersion = "0.1.0"

	// Client configuration
	MaxRedirects = 5
	RetryCount   = 2

	// Operation intervals
	OperationInterval = 5 * time.Second
)
