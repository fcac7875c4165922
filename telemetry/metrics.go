package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StreamMetrics holds the metric instruments recorded by the stream handlers.
type StreamMetrics struct {
	framesTotal    metric.Int64Counter
	streamsActive  metric.Int64UpDownCounter
	streamDuration metric.Float64Histogram
}

// NewStreamMetrics creates the stream instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	framesTotal, err := meter.Int64Counter("stream.frames.total",
		metric.WithDescription("Total number of SSE data frames emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.frames.total counter: %w", err)
	}

	streamsActive, err := meter.Int64UpDownCounter("stream.active",
		metric.WithDescription("Number of currently open stream connections"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.active gauge: %w", err)
	}

	streamDuration, err := meter.Float64Histogram("stream.duration",
		metric.WithDescription("Duration of completed streams in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.duration histogram: %w", err)
	}

	return &StreamMetrics{
		framesTotal:    framesTotal,
		streamsActive:  streamsActive,
		streamDuration: streamDuration,
	}, nil
}

// RecordStreamStart increments the active stream count.
func (m *StreamMetrics) RecordStreamStart(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.streamsActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
	))
}

// RecordStreamEnd decrements active streams and records the stream outcome.
func (m *StreamMetrics) RecordStreamEnd(ctx context.Context, endpoint, status string, frames int64, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	)
	m.streamsActive.Add(ctx, -1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
	))
	m.framesTotal.Add(ctx, frames, attrs)
	m.streamDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordFrames adds emitted frames outside of a stream-end event, used by
// the feed publisher which never completes.
func (m *StreamMetrics) RecordFrames(ctx context.Context, endpoint string, frames int64) {
	if m == nil {
		return
	}
	m.framesTotal.Add(ctx, frames, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", "broadcast"),
	))
}
