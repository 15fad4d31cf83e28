package ports

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// Engine is the surface presentation adapters (terminal, HTTP, MCP) drive.
// It keeps no session state; callers own the *domain.State values.
type Engine interface {
	// Start opens a new session for the given presentation variant.
	Start(ctx context.Context, variant domain.Variant) *domain.State

	// CurrentQuestion returns the active question; ok is false once complete.
	CurrentQuestion(state *domain.State) (domain.Question, bool)

	// Render calculates the presentation for a state without advancing it.
	Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool)

	// SubmitAnswer validates raw input for the active question and advances.
	SubmitAnswer(ctx context.Context, state *domain.State, raw string) (*domain.State, error)

	// Toggle flips one option of the active multi-select question.
	Toggle(ctx context.Context, state *domain.State, option string) (*domain.State, error)

	// GoBack returns to the previously visited question.
	GoBack(ctx context.Context, state *domain.State) *domain.State

	// IsComplete reports whether every question on the path was answered.
	IsComplete(state *domain.State) bool

	// Finalize hands the answer record to the sink.
	Finalize(ctx context.Context, state *domain.State) (domain.RecordID, error)
}
