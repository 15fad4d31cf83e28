package runner

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// IOHandler defines the strategy for interacting with the respondent.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the actions to the respondent.
	// Returns true if the actions ask for an answer.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads a response from the respondent.
	// It returns io.EOF when the input stream is exhausted.
	Input(ctx context.Context) (string, error)

	// Signal notifies the handler of an event (e.g. "typing", "achievement").
	// This is used for visual feedback and never changes the session.
	Signal(ctx context.Context, name string, args map[string]any) error

	// SystemOutput presents a meta-message (validation errors, confirmations).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// Signal names emitted by the Runner.
const (
	SignalTyping      = "typing"
	SignalAchievement = "achievement"
)

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
