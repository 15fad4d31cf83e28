// Package progress derives completion percentages and milestone achievements
// from a session's position. Everything here is a pure function of its inputs.
package progress

import (
	"cmp"
	"math"
	"slices"
)

// Percent returns round((position+1)/total*100) clamped to [0,100].
// An empty catalog, or a position at or past the end, is 100.
func Percent(position, total int) int {
	if total <= 0 || position >= total {
		return 100
	}
	if position < 0 {
		return 0
	}
	p := int(math.Round(float64(position+1) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// Milestone unlocks Label once the session reaches a threshold.
// A zero threshold is ignored; when several are set, all must be met.
type Milestone struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`

	// AtPosition is met once position >= AtPosition.
	AtPosition int `json:"at_position,omitempty" yaml:"at_position,omitempty" mapstructure:"at_position"`

	// AtPercent is met once Percent(position, total) >= AtPercent.
	AtPercent int `json:"at_percent,omitempty" yaml:"at_percent,omitempty" mapstructure:"at_percent"`

	// OnComplete is met once the session reaches the terminal position.
	OnComplete bool `json:"on_complete,omitempty" yaml:"on_complete,omitempty" mapstructure:"on_complete"`
}

func (m Milestone) reached(position, total int) bool {
	if m.AtPosition == 0 && m.AtPercent == 0 && !m.OnComplete {
		return false
	}
	if m.AtPosition > 0 && position < m.AtPosition {
		return false
	}
	if m.AtPercent > 0 && Percent(position, total) < m.AtPercent {
		return false
	}
	if m.OnComplete && position < total {
		return false
	}
	return true
}

// Tracker evaluates a fixed set of milestones.
type Tracker struct {
	milestones []Milestone
}

// NewTracker creates a tracker for the given milestones.
func NewTracker(milestones ...Milestone) *Tracker {
	return &Tracker{milestones: append([]Milestone(nil), milestones...)}
}

// Positions builds milestones keyed by position, e.g. {1: "Started", 2: "Halfway"},
// ordered by position. A key of 0 is ignored and never unlocks: position 0 is the
// start of every session, so use AtPercent or OnComplete instead.
func Positions(labels map[int]string) []Milestone {
	out := make([]Milestone, 0, len(labels))
	for pos, label := range labels {
		out = append(out, Milestone{Label: label, AtPosition: pos})
	}
	slices.SortFunc(out, func(a, b Milestone) int {
		return cmp.Compare(a.AtPosition, b.AtPosition)
	})
	return out
}

// Milestones returns a copy of the configured milestones.
func (t *Tracker) Milestones() []Milestone {
	return append([]Milestone(nil), t.milestones...)
}

// Check returns the labels reached at position that are not already in unlocked.
// It never returns the same label twice.
func (t *Tracker) Check(position, total int, unlocked []string) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(unlocked))
	for _, l := range unlocked {
		seen[l] = true
	}

	var fresh []string
	for _, m := range t.milestones {
		if seen[m.Label] || !m.reached(position, total) {
			continue
		}
		seen[m.Label] = true
		fresh = append(fresh, m.Label)
	}
	return fresh
}

// DefaultMilestones are the achievements announced by the product feedback flow.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Label: "Ice breaker", AtPosition: 1},
		{Label: "Halfway there", AtPercent: 50},
		{Label: "Almost done", AtPercent: 90},
		{Label: "Feedback hero", OnComplete: true},
	}
}
