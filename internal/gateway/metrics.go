package gateway

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type clientMetrics struct {
	requests metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

func newClientMetrics() *clientMetrics {
	meter := otel.Meter("harvester/gateway")
	m := &clientMetrics{}
	var err error

	m.requests, err = meter.Int64Counter("gateway.requests",
		metric.WithDescription("Requests sent through the scraping gateway, by outcome."))
	if err != nil {
		slog.Warn("failed to create request counter", "err", err)
	}
	m.retries, err = meter.Int64Counter("gateway.retries",
		metric.WithDescription("Retry attempts triggered by retryable gateway failures."))
	if err != nil {
		slog.Warn("failed to create retry counter", "err", err)
	}
	m.duration, err = meter.Float64Histogram("gateway.request.duration",
		metric.WithDescription("Wall time of a gateway fetch including retries."),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("failed to create duration histogram", "err", err)
	}

	return m
}
