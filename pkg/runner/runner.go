package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// errExit marks a respondent-requested exit.
var errExit = errors.New("exit requested")

// Runner handles the interaction loop of a canvass engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter for resumable sessions.
	// If nil, sessions are ephemeral.
	Store ports.SessionStore

	// Variant is used when Run has to start a new session. Defaults to chat.
	Variant domain.Variant

	// Renderer is applied by the default text handler.
	Renderer ContentRenderer
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Variant: domain.VariantChat,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run drives the session until it is complete and submitted, the respondent
// exits, or the input is exhausted. If initial is nil a new session is started.
// The returned state is the last one reached, which callers may persist or resume.
//
// Leaving early (exit, quit, EOF) is not an error. A canceled ctx is returned as is.
func (r *Runner) Run(ctx context.Context, engine ports.Engine, initial *domain.State) (*domain.State, error) {
	handler := r.resolveHandler()

	state := initial
	if state == nil {
		state = engine.Start(ctx, r.Variant)
		if err := r.saveState(ctx, state); err != nil {
			return state, err
		}
	}

	for !engine.IsComplete(state) {
		actions, _ := engine.Render(ctx, state)
		if _, err := handler.Output(ctx, actions); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		raw, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("input closed, pausing session", "session_id", state.ID, "position", state.Position)
				return state, nil
			}
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		next, err := r.apply(ctx, engine, state, raw)
		if errors.Is(err, errExit) {
			return state, nil
		}
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				if err := handler.SystemOutput(ctx, verr.Reason); err != nil {
					return state, err
				}
				continue
			}
			return state, err
		}

		r.announce(ctx, handler, state, next)

		if err := r.saveState(ctx, next); err != nil {
			return next, fmt.Errorf("critical persistence error: %w", err)
		}
		state = next
	}

	actions, _ := engine.Render(ctx, state)
	if _, err := handler.Output(ctx, actions); err != nil {
		return state, fmt.Errorf("output error: %w", err)
	}
	return state, r.finalize(ctx, engine, handler, state)
}

// apply interprets one line of input as a command or an answer.
func (r *Runner) apply(ctx context.Context, engine ports.Engine, state *domain.State, raw string) (*domain.State, error) {
	cmd := strings.TrimSpace(raw)
	lower := strings.ToLower(cmd)

	switch lower {
	case "exit", "quit":
		return nil, errExit
	case "back":
		return engine.GoBack(ctx, state), nil
	}

	if lower == "toggle" || strings.HasPrefix(lower, "toggle ") {
		// Only multi-select questions understand toggle; elsewhere the text is an answer.
		if q, ok := engine.CurrentQuestion(state); ok && q.Kind == domain.KindMultiSelect {
			return engine.Toggle(ctx, state, strings.TrimSpace(cmd[len("toggle"):]))
		}
	}

	return engine.SubmitAnswer(ctx, state, raw)
}

// announce emits cosmetic signals for what changed between two states.
func (r *Runner) announce(ctx context.Context, handler IOHandler, prev, next *domain.State) {
	diff := domain.Diff(prev, next)
	if diff == nil {
		return
	}
	for _, label := range diff.Achievements {
		if err := handler.Signal(ctx, SignalAchievement, map[string]any{"label": label}); err != nil {
			r.Logger.Debug("signal failed", "signal", SignalAchievement, "err", err)
		}
	}
	if diff.Position != nil && next.Position > prev.Position {
		if err := handler.Signal(ctx, SignalTyping, nil); err != nil {
			r.Logger.Debug("signal failed", "signal", SignalTyping, "err", err)
		}
	}
}

// finalize submits the record, offering a retry while the sink fails.
func (r *Runner) finalize(ctx context.Context, engine ports.Engine, handler IOHandler, state *domain.State) error {
	for {
		id, err := engine.Finalize(ctx, state)
		if err == nil {
			if err := handler.SystemOutput(ctx, fmt.Sprintf("Thank you! Your feedback was recorded (%s).", id)); err != nil {
				return err
			}
			r.discard(ctx, state)
			return nil
		}
		if !domain.IsSubmission(err) {
			return err
		}

		r.Logger.Warn("submission failed", "session_id", state.ID, "err", err)
		msg := fmt.Sprintf("%v. Type 'retry' to try again or 'exit' to leave; your answers are kept.", err)
		if err := handler.SystemOutput(ctx, msg); err != nil {
			return err
		}

		answer, inErr := handler.Input(ctx)
		if inErr != nil || !strings.EqualFold(strings.TrimSpace(answer), "retry") {
			return err
		}
	}
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(ctx, state.ID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", state.ID, "position", state.Position)
	return nil
}

func (r *Runner) discard(ctx context.Context, state *domain.State) {
	if r.Store == nil {
		return
	}
	if err := r.Store.Delete(ctx, state.ID); err != nil {
		r.Logger.Warn("failed to discard submitted session", "session_id", state.ID, "err", err)
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	// Memoize so later Run calls share the input pump.
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}
