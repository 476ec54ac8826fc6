package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	metricRelayRequests  = "chat.relay.requests"
	metricUpstreamErrors = "chat.upstream.errors"
	metricUpstreamTime   = "chat.upstream.duration"
)

type instruments struct {
	requests       metric.Int64Counter
	upstreamErrors metric.Int64Counter
	upstreamTime   metric.Float64Histogram
}

// newInstruments falls back to no-op instruments when the meter rejects one.
func newInstruments(meter metric.Meter) instruments {
	nop := noop.Meter{}
	var ins instruments
	var err error

	if ins.requests, err = meter.Int64Counter(metricRelayRequests,
		metric.WithDescription("Chat relay requests by cache outcome")); err != nil {
		ins.requests, _ = nop.Int64Counter(metricRelayRequests)
	}
	if ins.upstreamErrors, err = meter.Int64Counter(metricUpstreamErrors,
		metric.WithDescription("Failed or empty language model generations")); err != nil {
		ins.upstreamErrors, _ = nop.Int64Counter(metricUpstreamErrors)
	}
	if ins.upstreamTime, err = meter.Float64Histogram(metricUpstreamTime,
		metric.WithDescription("Language model generation latency"),
		metric.WithUnit("s")); err != nil {
		ins.upstreamTime, _ = nop.Float64Histogram(metricUpstreamTime)
	}
	return ins
}

func (ins instruments) recordRequest(ctx context.Context, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	ins.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", outcome)))
}
