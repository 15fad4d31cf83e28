package domain

import (
	"time"
)

// Variant identifies which presentation produced a session. It doubles as the
// source tag of the emitted record.
type Variant string

const (
	VariantChat      Variant = "chat"
	VariantWizard    Variant = "wizard"
	VariantForm      Variant = "form"
	VariantAssistant Variant = "assistant"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantChat, VariantWizard, VariantForm, VariantAssistant:
		return true
	}
	return false
}

// TracksTranscript reports whether the variant records exchanged turns.
func (v Variant) TracksTranscript() bool {
	return v == VariantChat || v == VariantAssistant
}

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
)

// Turn is one exchanged message in the transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// State represents one respondent's pass through the catalog.
type State struct {
	ID      string  `json:"id"`
	Variant Variant `json:"variant"`

	// Position is the index of the active question. Position equal to the
	// catalog length is the terminal state.
	Position int `json:"position"`

	// History holds previously visited positions, most recent last.
	History []int `json:"history,omitempty"`

	// Answers maps target fields to coerced values. Keys appear only once written.
	Answers map[string]any `json:"answers"`

	// Transcript is append-only and only populated by transcript variants.
	Transcript []Turn `json:"transcript,omitempty"`

	// Achievements grows monotonically; a label appears at most once.
	Achievements []string `json:"achievements,omitempty"`

	// Initialized guards the greeting sequence for this session.
	Initialized bool `json:"initialized"`

	StartedAt time.Time `json:"started_at"`
}

// NewState creates an empty session positioned on the first question.
func NewState(id string, variant Variant) *State {
	return &State{
		ID:        id,
		Variant:   variant,
		Answers:   make(map[string]any),
		StartedAt: time.Now().UTC(),
	}
}

// HasAchievement reports whether label was already unlocked.
func (s *State) HasAchievement(label string) bool {
	for _, a := range s.Achievements {
		if a == label {
			return true
		}
	}
	return false
}

// Clone returns a copy that can be mutated without affecting s.
// Answer values are copied one level deep so multi-select slices are not shared.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		if set, ok := v.([]string); ok {
			v = append([]string(nil), set...)
		}
		next.Answers[k] = v
	}
	next.History = append([]int(nil), s.History...)
	next.Transcript = append([]Turn(nil), s.Transcript...)
	next.Achievements = append([]string(nil), s.Achievements...)
	return &next
}

// NormalizeAnswers restores answer types widened by a JSON round trip:
// integral float64 values become int and lists of strings become []string.
func NormalizeAnswers(answers map[string]any) {
	for k, v := range answers {
		switch val := v.(type) {
		case float64:
			if val == float64(int(val)) {
				answers[k] = int(val)
			}
		case []any:
			set := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					set = nil
					break
				}
				set = append(set, s)
			}
			if set != nil {
				answers[k] = set
			}
		}
	}
}
