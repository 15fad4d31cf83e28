package runner

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// RichResponse combines state and rendering actions for rich clients (Web, MCP, etc).
type RichResponse struct {
	State    *domain.State          `json:"state"`
	Actions  []domain.ActionRequest `json:"actions,omitempty"`
	Terminal bool                   `json:"terminal"`
	Percent  int                    `json:"percent"`

	// Diff holds what changed since the previous state, when one was given.
	Diff *domain.StateDiff `json:"diff,omitempty"`
}

// NewRichResponse renders state so clients always receive the content for the
// question they just reached. previous may be nil.
func NewRichResponse(ctx context.Context, engine ports.Engine, previous, state *domain.State) *RichResponse {
	actions, terminal := engine.Render(ctx, state)
	resp := &RichResponse{
		State:    state,
		Actions:  actions,
		Terminal: terminal,
	}
	for _, act := range actions {
		if p, ok := act.Payload.(domain.Progress); ok {
			resp.Percent = p.Percent
		}
	}
	if previous != nil {
		resp.Diff = domain.Diff(previous, state)
	}
	return resp
}
