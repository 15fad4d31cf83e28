package domain

import (
	"reflect"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Position *int `json:"position,omitempty"`

	// Answers contains only changed, added or deleted fields.
	// For deletions, the key is present with a nil value.
	Answers map[string]any `json:"answers,omitempty"`

	// Transcript holds turns appended since the old state.
	Transcript []Turn `json:"transcript,omitempty"`

	// Achievements holds labels unlocked since the old state.
	Achievements []string `json:"achievements,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.ID,
	}

	if oldState == nil || oldState.Position != newState.Position {
		pos := newState.Position
		diff.Position = &pos
	}

	diff.Answers = diffAnswers(oldState, newState)

	var oldTurns, oldAchievements int
	if oldState != nil {
		oldTurns = len(oldState.Transcript)
		oldAchievements = len(oldState.Achievements)
	}
	// Transcript and achievements are append-only.
	if len(newState.Transcript) > oldTurns {
		diff.Transcript = newState.Transcript[oldTurns:]
	}
	if len(newState.Achievements) > oldAchievements {
		diff.Achievements = newState.Achievements[oldAchievements:]
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old *State, new *State) map[string]any {
	delta := make(map[string]any)

	if old == nil {
		for k, v := range new.Answers {
			delta[k] = v
		}
	} else {
		for k, newVal := range new.Answers {
			oldVal, exists := old.Answers[k]
			if !exists || !reflect.DeepEqual(oldVal, newVal) {
				delta[k] = newVal
			}
		}
		for k := range old.Answers {
			if _, exists := new.Answers[k]; !exists {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Position == nil &&
		len(d.Answers) == 0 &&
		len(d.Transcript) == 0 &&
		len(d.Achievements) == 0
}
