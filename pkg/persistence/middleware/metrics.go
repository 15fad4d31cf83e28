package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/observability"
	"github.com/aretw0/canvass/pkg/ports"
)

type metricsSink struct {
	next    ports.Sink
	metrics *observability.Metrics
}

// NewMetricsMiddleware counts submissions and observes their latency.
func NewMetricsMiddleware(m *observability.Metrics) SinkMiddleware {
	return func(next ports.Sink) ports.Sink {
		return &metricsSink{next: next, metrics: m}
	}
}

func (m *metricsSink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	start := time.Now()
	id, err := m.next.Submit(ctx, record)
	m.metrics.ObserveSubmit(fmt.Sprint(record[domain.KeySource]), err, time.Since(start))
	return id, err
}
