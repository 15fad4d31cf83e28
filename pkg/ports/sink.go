package ports

import (
	"context"
	"fmt"

	"github.com/aretw0/canvass/pkg/domain"
)

// Sink durably stores finished answer records.
// Implementations own persistence semantics; the engine calls Submit once per
// finalize attempt and never retries on its own.
type Sink interface {
	Submit(ctx context.Context, record domain.Record) (domain.RecordID, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, record domain.Record) (domain.RecordID, error)

func (f SinkFunc) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	return f(ctx, record)
}

// Rejection is returned by a sink that received the record but refused it
// (the {ok: false, reason} answer). The reason is meant for the respondent.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("record rejected: %s", r.Reason)
}
