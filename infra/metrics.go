package infra

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tnqbao/gau-gallery-service"

// Metrics holds the gallery instruments. A nil *Metrics records nothing.
type Metrics struct {
	uploaded          metric.Int64Counter
	deleted           metric.Int64Counter
	ghostsPruned      metric.Int64Counter
	reconcileDuration metric.Float64Histogram
}

func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName)

	uploaded, err := meter.Int64Counter("gallery.images.uploaded",
		metric.WithDescription("Images stored and recorded in the metadata store"))
	if err != nil {
		return nil, err
	}
	deleted, err := meter.Int64Counter("gallery.images.deleted",
		metric.WithDescription("Images removed through the delete endpoint"))
	if err != nil {
		return nil, err
	}
	ghostsPruned, err := meter.Int64Counter("gallery.cache.ghosts_pruned",
		metric.WithDescription("Path cache entries removed because no blob backs them"))
	if err != nil {
		return nil, err
	}
	reconcileDuration, err := meter.Float64Histogram("gallery.reconcile.duration",
		metric.WithDescription("Duration of a cache reconciliation pass"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		uploaded:          uploaded,
		deleted:           deleted,
		ghostsPruned:      ghostsPruned,
		reconcileDuration: reconcileDuration,
	}, nil
}

func (m *Metrics) RecordUploaded(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.uploaded.Add(ctx, int64(n))
}

func (m *Metrics) RecordDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.deleted.Add(ctx, 1)
}

func (m *Metrics) RecordReconcile(ctx context.Context, pruned int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ghostsPruned.Add(ctx, int64(pruned))
	m.reconcileDuration.Record(ctx, elapsed.Seconds())
}
