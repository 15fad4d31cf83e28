package canvass

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/internal/runtime"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/progress"
	"github.com/aretw0/canvass/pkg/submission"
)

// Navigator chooses the position after an answer. See runtime.Linear and runtime.Table.
type Navigator = runtime.Navigator

// Interpolator renders prompt templates against the answers collected so far.
type Interpolator = runtime.Interpolator

// Engine is the high-level entry point for the canvass library.
// It wraps the dialog controller and the submission emitter behind one API.
// An Engine holds no session state and is safe for concurrent use.
type Engine struct {
	controller *runtime.Controller
	emitter    *submission.Emitter

	catalog      *catalog.Catalog
	sink         ports.Sink
	milestones   []progress.Milestone
	navigator    Navigator
	interpolator Interpolator
	greeting     string
	source       string
	now          func() time.Time
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets the question catalog. Defaults to catalog.Default().
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithSink sets where finalized records go. Defaults to an in-memory sink.
func WithSink(sink ports.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithMilestones replaces the default achievement milestones.
// Passing none disables achievements.
func WithMilestones(ms ...progress.Milestone) Option {
	return func(e *Engine) {
		e.milestones = ms
	}
}

// WithNavigator overrides the per-variant navigation strategy.
func WithNavigator(n Navigator) Option {
	return func(e *Engine) {
		e.navigator = n
	}
}

// WithInterpolator sets a custom prompt interpolator.
func WithInterpolator(i Interpolator) Option {
	return func(e *Engine) {
		e.interpolator = i
	}
}

// WithGreeting sets the text shown before the first question.
func WithGreeting(text string) Option {
	return func(e *Engine) {
		e.greeting = text
	}
}

// WithSource sets the default "source" stamped on records.
func WithSource(source string) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithClock sets the time source for transcripts and submitted_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new canvass Engine.
// Without options it runs the built-in product feedback catalog and keeps
// submitted records in memory.
func New(opts ...Option) *Engine {
	eng := &Engine{
		milestones: progress.DefaultMilestones(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		eng.catalog = catalog.Default()
	}
	if eng.sink == nil {
		eng.sink = memory.NewSink()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("catalog", eng.catalog.Name())

	runtimeOpts := []runtime.Option{
		runtime.WithTracker(progress.NewTracker(eng.milestones...)),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.navigator != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithNavigator(eng.navigator))
	}
	if eng.interpolator != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithInterpolator(eng.interpolator))
	}
	if eng.greeting != "" {
		runtimeOpts = append(runtimeOpts, runtime.WithGreeting(eng.greeting))
	}
	if eng.now != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithClock(eng.now))
	}
	eng.controller = runtime.New(eng.catalog, runtimeOpts...)

	emitterOpts := []submission.Option{
		submission.WithLifecycleHooks(eng.hooks),
		submission.WithLogger(eng.logger),
	}
	if eng.source != "" {
		emitterOpts = append(emitterOpts, submission.WithSource(eng.source))
	}
	if eng.now != nil {
		emitterOpts = append(emitterOpts, submission.WithClock(eng.now))
	}
	eng.emitter = submission.NewEmitter(eng.sink, eng.controller.IsComplete, emitterOpts...)

	return eng
}

// Catalog returns the question catalog the engine runs.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Sink returns the record sink finalized sessions are handed to.
func (e *Engine) Sink() ports.Sink {
	return e.sink
}

// Start opens a new session positioned at the first question.
// The variant must be one of the domain.Variant constants.
func (e *Engine) Start(ctx context.Context, variant domain.Variant) *domain.State {
	return e.controller.Start(ctx, variant)
}

// CurrentQuestion returns the active question; ok is false once the session is complete.
func (e *Engine) CurrentQuestion(state *domain.State) (domain.Question, bool) {
	return e.controller.Current(state)
}

// Render generates the actions for the current state without advancing it.
// The boolean reports whether the session is complete.
func (e *Engine) Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool) {
	return e.controller.Render(ctx, state)
}

// SubmitAnswer validates raw input against the active question and advances.
// On a *domain.ValidationError the input state is returned unchanged.
func (e *Engine) SubmitAnswer(ctx context.Context, state *domain.State, raw string) (*domain.State, error) {
	return e.controller.SubmitAnswer(ctx, state, raw)
}

// Toggle flips one option of the active multi-select question without advancing.
func (e *Engine) Toggle(ctx context.Context, state *domain.State, option string) (*domain.State, error) {
	return e.controller.Toggle(ctx, state, option)
}

// GoBack returns to the previously visited question, keeping stored answers.
func (e *Engine) GoBack(ctx context.Context, state *domain.State) *domain.State {
	return e.controller.GoBack(ctx, state)
}

// ProgressPercent reports completion as an integer between 0 and 100.
func (e *Engine) ProgressPercent(state *domain.State) int {
	return e.controller.Percent(state)
}

// Achievements lists the milestone labels unlocked so far, in unlock order.
func (e *Engine) Achievements(state *domain.State) []string {
	return append([]string(nil), state.Achievements...)
}

// IsComplete reports whether the session has passed its last question.
func (e *Engine) IsComplete(state *domain.State) bool {
	return e.controller.IsComplete(state)
}

// Finalize builds the answer record and hands it to the sink.
// It may be called again after a *domain.SubmissionError.
func (e *Engine) Finalize(ctx context.Context, state *domain.State) (domain.RecordID, error) {
	return e.emitter.Finalize(ctx, state)
}

var _ ports.Engine = (*Engine)(nil)
