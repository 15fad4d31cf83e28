package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/coerce"
	"github.com/aretw0/canvass/pkg/domain"
)

// SubmitAnswer validates raw against the active question and advances the session.
// On a validation failure it returns the unchanged state and a *domain.ValidationError.
func (c *Controller) SubmitAnswer(ctx context.Context, state *domain.State, raw string) (*domain.State, error) {
	q, ok := c.catalog.Get(state.Position)
	if !ok {
		return state, domain.ErrSessionComplete
	}

	value, err := coerce.Coerce(q, raw, state.Answers[q.TargetField])
	if err != nil {
		c.logger.Debug("answer rejected", "session_id", state.ID, "question", q.ID, "err", err)
		c.emitValidationFailed(ctx, state, q, err)
		return state, err
	}

	next := cloneState(state)
	next.Answers[q.TargetField] = value

	if next.Variant.TracksTranscript() {
		ts := c.now().UTC()
		next.Transcript = append(next.Transcript,
			domain.Turn{Role: domain.RoleAssistant, Text: c.prompt(ctx, q, state), Timestamp: ts},
			domain.Turn{Role: domain.RoleUser, Text: replyText(raw, value), Timestamp: ts},
		)
	}

	c.emitAnswer(ctx, next, q, value)

	target := c.navigatorFor(next.Variant).Next(c.catalog, state.Position, value)
	if target <= state.Position || target > c.catalog.Len() {
		panic(&domain.ProgrammerError{Op: "navigate", Detail: fmt.Sprintf("invalid target %d from position %d", target, state.Position)})
	}
	next.History = append(next.History, state.Position)
	next.Position = target

	c.unlockAchievements(ctx, next)

	c.logger.Debug("answer accepted", "session_id", next.ID, "question", q.ID, "position", next.Position)
	if nq, ok := c.catalog.Get(next.Position); ok {
		c.emitQuestionEnter(ctx, next, nq)
	}
	return next, nil
}

// Toggle flips option in the active multi-select question without advancing.
// Toggling any other kind of question panics with *domain.ProgrammerError.
func (c *Controller) Toggle(ctx context.Context, state *domain.State, option string) (*domain.State, error) {
	q, ok := c.catalog.Get(state.Position)
	if !ok {
		return state, domain.ErrSessionComplete
	}

	set, err := coerce.Toggle(q, option, state.Answers[q.TargetField])
	if err != nil {
		c.emitValidationFailed(ctx, state, q, err)
		return state, err
	}

	next := cloneState(state)
	next.Answers[q.TargetField] = set
	c.logger.Debug("option toggled", "session_id", next.ID, "question", q.ID, "option", option, "selected", set)
	return next, nil
}

// GoBack returns to the previously visited question, keeping every answer.
// At the first question it is a no-op.
func (c *Controller) GoBack(ctx context.Context, state *domain.State) *domain.State {
	if state.Position == 0 {
		return state
	}

	next := cloneState(state)
	if n := len(next.History); n > 0 {
		next.Position = next.History[n-1]
		next.History = next.History[:n-1]
	} else {
		next.Position--
	}

	if q, ok := c.catalog.Get(next.Position); ok {
		c.emitQuestionEnter(ctx, next, q)
	}
	return next
}

func (c *Controller) unlockAchievements(ctx context.Context, state *domain.State) {
	fresh := c.tracker.Check(state.Position, c.catalog.Len(), state.Achievements)
	for _, label := range fresh {
		state.Achievements = append(state.Achievements, label)
		if state.Variant.TracksTranscript() {
			state.Transcript = append(state.Transcript, domain.Turn{
				Role:      domain.RoleSystem,
				Text:      "Achievement unlocked: " + label,
				Timestamp: c.now().UTC(),
			})
		}
		c.logger.Info("achievement unlocked", "session_id", state.ID, "label", label)
		c.emitAchievement(ctx, state, label)
	}
}

func replyText(raw string, value any) string {
	if set, ok := value.([]string); ok && strings.TrimSpace(raw) == "" {
		return strings.Join(set, ", ")
	}
	return strings.TrimSpace(raw)
}
