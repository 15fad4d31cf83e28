package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/progress"
	"github.com/google/uuid"
)

// Controller is the dialog state machine. It walks a session through the catalog
// one answer at a time. It holds no session state of its own; every call takes a
// state and returns a fresh copy.
type Controller struct {
	catalog      *catalog.Catalog
	navigator    Navigator
	tracker      *progress.Tracker
	interpolator Interpolator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	greeting     string
	now          func() time.Time
	newID        func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator forces a navigator for every variant.
// By default the assistant variant follows catalog transitions and the others are linear.
func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		c.navigator = n
	}
}

// WithTracker sets the milestone tracker.
func WithTracker(t *progress.Tracker) Option {
	return func(c *Controller) {
		c.tracker = t
	}
}

// WithInterpolator replaces the {field} prompt interpolation.
func WithInterpolator(i Interpolator) Option {
	return func(c *Controller) {
		c.interpolator = i
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGreeting sets the message shown once when a session opens.
func WithGreeting(text string) Option {
	return func(c *Controller) {
		c.greeting = text
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		c.newID = gen
	}
}

// New creates a controller over cat.
func New(cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:      cat,
		tracker:      progress.NewTracker(),
		interpolator: DefaultInterpolator,
		logger:       logging.NewNop(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the controller walks.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Start creates an empty session for variant and runs the greeting.
func (c *Controller) Start(ctx context.Context, variant domain.Variant) *domain.State {
	if !variant.Valid() {
		panic(&domain.ProgrammerError{Op: "start", Detail: "unknown variant " + string(variant)})
	}

	state := domain.NewState(c.newID(), variant)
	state.StartedAt = c.now().UTC()
	state = c.Greet(ctx, state)

	c.logger.Debug("session started", "session_id", state.ID, "variant", variant)
	if q, ok := c.catalog.Get(state.Position); ok {
		c.emitQuestionEnter(ctx, state, q)
	}
	return state
}

// Greet runs the opening sequence once per session. A state that was already
// greeted is returned as is, so re-mounting a presentation never repeats it.
func (c *Controller) Greet(ctx context.Context, state *domain.State) *domain.State {
	if state.Initialized {
		return state
	}
	next := cloneState(state)
	next.Initialized = true
	if c.greeting != "" && next.Variant.TracksTranscript() {
		next.Transcript = append(next.Transcript, domain.Turn{
			Role:      domain.RoleSystem,
			Text:      c.greeting,
			Timestamp: c.now().UTC(),
		})
	}
	return next
}

// Current returns the active question. ok is false once the session is complete.
func (c *Controller) Current(state *domain.State) (domain.Question, bool) {
	return c.catalog.Get(state.Position)
}

// IsComplete reports whether the session reached the terminal position.
func (c *Controller) IsComplete(state *domain.State) bool {
	return state.Position >= c.catalog.Len()
}

// Percent reports the completion percentage of state.
func (c *Controller) Percent(state *domain.State) int {
	return progress.Percent(state.Position, c.catalog.Len())
}

// cloneState creates a copy of the state that is safe to mutate.
func cloneState(src *domain.State) *domain.State {
	next := src.Clone()
	if next.Answers == nil {
		next.Answers = make(map[string]any)
	}
	return next
}
