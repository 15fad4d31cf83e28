package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// SessionManager resumes or starts durable terminal sessions.
// It coordinates between the Runner, the Engine, and the SessionStore.
type SessionManager struct {
	Store ports.SessionStore
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(store ports.SessionStore) *SessionManager {
	return &SessionManager{
		Store: store,
	}
}

// LoadOrStart attempts to load an existing session. If not found, it starts a new one
// under sessionID. Returns the state and a boolean indicating if it was loaded.
// A resumed session keeps its own variant.
func (sm *SessionManager) LoadOrStart(
	ctx context.Context,
	engine ports.Engine,
	sessionID string,
	variant domain.Variant,
) (*domain.State, bool, error) {
	if sessionID == "" {
		return engine.Start(ctx, variant), false, nil
	}

	state, err := sm.Store.Load(ctx, sessionID)
	if err == nil {
		return state, true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	state = engine.Start(ctx, variant)
	state.ID = sessionID

	// Save immediately to reserve the ID
	if err := sm.Store.Save(ctx, sessionID, state); err != nil {
		return nil, false, fmt.Errorf("failed to initialize session %s: %w", sessionID, err)
	}
	return state, false, nil
}
