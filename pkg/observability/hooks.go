package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/canvass/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured line per event.
// Answer values are never logged; they may hold personal data.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.DebugContext(ctx, "question_enter", "session_id", e.SessionID, "question_id", e.QuestionID, "position", e.Position)
		},
		OnAnswer: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.InfoContext(ctx, "answer", "session_id", e.SessionID, "question_id", e.QuestionID, "field", e.Field)
		},
		OnValidationFailed: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.InfoContext(ctx, "validation_failed", "session_id", e.SessionID, "question_id", e.QuestionID, "reason", e.Reason)
		},
		OnAchievement: func(ctx context.Context, e *domain.AchievementEvent) {
			logger.InfoContext(ctx, "achievement", "session_id", e.SessionID, "label", e.Label)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "submit", "session_id", e.SessionID, "source", e.Source, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "submit", "session_id", e.SessionID, "source", e.Source, "record_id", e.RecordID)
		},
	}
}

// Combine fans every event out to each set of hooks, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			for _, h := range all {
				if h.OnQuestionEnter != nil {
					h.OnQuestionEnter(ctx, e)
				}
			}
		},
		OnAnswer: func(ctx context.Context, e *domain.QuestionEvent) {
			for _, h := range all {
				if h.OnAnswer != nil {
					h.OnAnswer(ctx, e)
				}
			}
		},
		OnValidationFailed: func(ctx context.Context, e *domain.QuestionEvent) {
			for _, h := range all {
				if h.OnValidationFailed != nil {
					h.OnValidationFailed(ctx, e)
				}
			}
		},
		OnAchievement: func(ctx context.Context, e *domain.AchievementEvent) {
			for _, h := range all {
				if h.OnAchievement != nil {
					h.OnAchievement(ctx, e)
				}
			}
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			for _, h := range all {
				if h.OnSubmit != nil {
					h.OnSubmit(ctx, e)
				}
			}
		},
	}
}
