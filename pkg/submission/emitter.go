// Package submission packages a finished session into an answer record and
// hands it to a sink.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// Emitter builds answer records and submits them. It never retries; a failed
// Finalize leaves the session untouched so the caller can offer a retry.
type Emitter struct {
	sink   ports.Sink
	done   func(*domain.State) bool
	source string
	now    func() time.Time
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithSource overrides the source tag. By default the session variant is used.
func WithSource(source string) Option {
	return func(e *Emitter) {
		e.source = source
	}
}

// WithClock overrides the submission timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// WithLifecycleHooks registers the OnSubmit observer.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Emitter) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEmitter creates an emitter writing to sink. done reports whether a session
// reached the end of its catalog.
func NewEmitter(sink ports.Sink, done func(*domain.State) bool, opts ...Option) *Emitter {
	e := &Emitter{
		sink:   sink,
		done:   done,
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Finalize submits the answers of a complete session.
// It returns domain.ErrIncomplete when the session has not reached the end, and a
// *domain.SubmissionError when the sink fails. The state is never modified.
func (e *Emitter) Finalize(ctx context.Context, state *domain.State) (domain.RecordID, error) {
	if !e.done(state) {
		return "", domain.ErrIncomplete
	}

	source := e.source
	if source == "" {
		source = string(state.Variant)
	}
	record := BuildRecord(state.Answers, source, e.now())

	id, err := e.sink.Submit(ctx, record)
	if err != nil {
		serr := &domain.SubmissionError{Err: err}
		var rej *ports.Rejection
		if errors.As(err, &rej) {
			serr.Reason = rej.Reason
		}
		e.logger.Warn("submission failed", "session_id", state.ID, "source", source, "err", err)
		e.emitSubmit(ctx, state, source, "", serr)
		return "", serr
	}

	e.logger.Info("record submitted", "session_id", state.ID, "source", source, "record_id", id)
	e.emitSubmit(ctx, state, source, id, nil)
	return id, nil
}

// BuildRecord shallow-copies answers and adds the submission metadata.
// submitted_at is RFC 3339 in UTC.
func BuildRecord(answers map[string]any, source string, now time.Time) domain.Record {
	record := make(domain.Record, len(answers)+2)
	for k, v := range answers {
		record[k] = v
	}
	record[domain.KeySubmittedAt] = now.UTC().Format(time.RFC3339)
	record[domain.KeySource] = source
	return record
}

func (e *Emitter) emitSubmit(ctx context.Context, state *domain.State, source string, id domain.RecordID, err error) {
	if e.hooks.OnSubmit == nil {
		return
	}
	e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventSubmit, SessionID: state.ID},
		Source:    source,
		RecordID:  id,
		Err:       err,
	})
}
