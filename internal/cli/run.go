package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/presentation/tui"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/runner"
)

// RunOptions configures a terminal session.
type RunOptions struct {
	// SessionID makes the session resumable: progress is saved under this ID
	// and picked up again by the next run with the same ID.
	SessionID string
	JSON      bool
	Quiet     bool

	In  io.Reader
	Out io.Writer
}

// RunSession drives one respondent through the catalog on the terminal.
func RunSession(ctx context.Context, stack *Stack, opts RunOptions) (*domain.State, error) {
	logger := stack.Logger
	interactive := !opts.JSON && tui.IsTerminal(opts.Out)

	if interactive && !opts.Quiet {
		tui.PrintBanner(opts.Out, canvass.Version)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if interactive {
			textOpts = append(textOpts,
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
				runner.WithTypingDelay(stack.Config.TypingDelay),
			)
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithVariant(domain.Variant(stack.Config.Variant)),
	}

	var store ports.SessionStore
	if opts.SessionID != "" {
		var err error
		store, err = OpenFileStore(stack.Config)
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}

	state, loaded, err := runner.NewSessionManager(store).LoadOrStart(
		ctx, stack.Engine, opts.SessionID, domain.Variant(stack.Config.Variant))
	if err != nil {
		return nil, fmt.Errorf("failed to init session: %w", err)
	}
	if loaded {
		logger.Info("session resumed", "session_id", state.ID, "position", state.Position)
		if !opts.JSON && !opts.Quiet {
			fmt.Fprintf(opts.Out, ">>> Resuming session '%s' at question %d.\n", state.ID, state.Position+1)
		}
	}

	return runner.NewRunner(runnerOpts...).Run(ctx, stack.Engine, state)
}
