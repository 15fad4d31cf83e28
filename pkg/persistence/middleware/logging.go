package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

type loggingSink struct {
	next   ports.Sink
	logger *slog.Logger
}

// NewLoggingMiddleware logs every submission with its outcome and latency.
// Record values are never logged.
func NewLoggingMiddleware(logger *slog.Logger) SinkMiddleware {
	return func(next ports.Sink) ports.Sink {
		return &loggingSink{next: next, logger: logger}
	}
}

func (m *loggingSink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	start := time.Now()
	id, err := m.next.Submit(ctx, record)
	attrs := []any{
		"source", record[domain.KeySource],
		"fields", len(record),
		"duration", time.Since(start),
	}
	if err != nil {
		m.logger.WarnContext(ctx, "sink submit failed", append(attrs, "err", err)...)
		return id, err
	}
	m.logger.InfoContext(ctx, "sink submit", append(attrs, "record_id", id)...)
	return id, nil
}
