package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventQuestionEnter    EventType = "question_enter"
	EventAnswer           EventType = "answer"
	EventValidationFailed EventType = "validation_failed"
	EventAchievement      EventType = "achievement"
	EventSubmit           EventType = "submit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// QuestionEvent is emitted when a session lands on a question or answers it.
type QuestionEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
	Position   int    `json:"position"`
	Field      string `json:"field,omitempty"`
	Value      any    `json:"value,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// AchievementEvent is emitted once per unlocked milestone.
type AchievementEvent struct {
	EventBase
	Label string `json:"label"`
}

// SubmitEvent reports the outcome of a finalize call.
type SubmitEvent struct {
	EventBase
	Source   string   `json:"source"`
	RecordID RecordID `json:"record_id,omitempty"`
	Err      error    `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnQuestionEnter    func(context.Context, *QuestionEvent)
	OnAnswer           func(context.Context, *QuestionEvent)
	OnValidationFailed func(context.Context, *QuestionEvent)
	OnAchievement      func(context.Context, *AchievementEvent)
	OnSubmit           func(context.Context, *SubmitEvent)
}
