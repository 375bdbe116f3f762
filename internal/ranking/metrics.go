package ranking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/rankd/internal/ranking"

// Metrics holds ranking-related OTEL instruments. The engine's own
// running counters (total queries, EMA latency) live on the Engine; these
// instruments feed an external metrics pipeline when one is configured.
type Metrics struct {
	meter    metric.Meter
	logger   *zap.Logger
	duration metric.Float64Histogram
	chunks   metric.Int64Counter
	errors   metric.Int64Counter
}

// NewMetrics creates a Metrics instance for the ranking engine.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.duration, err = m.meter.Float64Histogram(
		"rankd.ranking.duration_seconds",
		metric.WithDescription("Duration of one ranking call in seconds, embedding latency included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.chunks, err = m.meter.Int64Counter(
		"rankd.ranking.chunks_total",
		metric.WithDescription("Total chunks submitted for ranking"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		m.logger.Warn("failed to create chunks counter", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"rankd.ranking.errors_total",
		metric.WithDescription("Total internal ranking failures recovered at the engine boundary"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

// RecordRank records one ranking call.
func (m *Metrics) RecordRank(ctx context.Context, duration time.Duration, chunkCount int, recovered bool) {
	if m.duration != nil {
		m.duration.Record(ctx, duration.Seconds())
	}
	if m.chunks != nil {
		m.chunks.Add(ctx, int64(chunkCount))
	}
	if recovered && m.errors != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "recovered_panic")))
	}
}
