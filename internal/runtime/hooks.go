package runtime

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

func (c *Controller) base(t domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{Timestamp: c.now(), Type: t, SessionID: state.ID}
}

func (c *Controller) emitQuestionEnter(ctx context.Context, state *domain.State, q domain.Question) {
	if c.hooks.OnQuestionEnter == nil {
		return
	}
	c.hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{
		EventBase:  c.base(domain.EventQuestionEnter, state),
		QuestionID: q.ID,
		Position:   state.Position,
		Field:      q.TargetField,
	})
}

func (c *Controller) emitAnswer(ctx context.Context, state *domain.State, q domain.Question, value any) {
	if c.hooks.OnAnswer == nil {
		return
	}
	c.hooks.OnAnswer(ctx, &domain.QuestionEvent{
		EventBase:  c.base(domain.EventAnswer, state),
		QuestionID: q.ID,
		Position:   state.Position,
		Field:      q.TargetField,
		Value:      value,
	})
}

func (c *Controller) emitValidationFailed(ctx context.Context, state *domain.State, q domain.Question, err error) {
	if c.hooks.OnValidationFailed == nil {
		return
	}
	c.hooks.OnValidationFailed(ctx, &domain.QuestionEvent{
		EventBase:  c.base(domain.EventValidationFailed, state),
		QuestionID: q.ID,
		Position:   state.Position,
		Field:      q.TargetField,
		Reason:     err.Error(),
	})
}

func (c *Controller) emitAchievement(ctx context.Context, state *domain.State, label string) {
	if c.hooks.OnAchievement == nil {
		return
	}
	c.hooks.OnAchievement(ctx, &domain.AchievementEvent{
		EventBase: c.base(domain.EventAchievement, state),
		Label:     label,
	})
}
