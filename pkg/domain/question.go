package domain

// Kind defines how raw input is coerced for a question.
type Kind string

const (
	KindFreeText     Kind = "free_text"
	KindSingleSelect Kind = "single_select"
	KindMultiSelect  Kind = "multi_select"
	KindRating       Kind = "rating_1_5"
	KindDate         Kind = "date"
	KindNumeric      Kind = "numeric"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFreeText, KindSingleSelect, KindMultiSelect, KindRating, KindDate, KindNumeric:
		return true
	}
	return false
}

// IsSelect reports whether the kind carries a list of options.
func (k Kind) IsSelect() bool {
	return k == KindSingleSelect || k == KindMultiSelect
}

// TerminalID is the transition target that ends the questionnaire.
const TerminalID = "done"

// Transition routes the dialog to another question when the coerced answer
// equals When. An empty When matches any answer.
type Transition struct {
	When string `json:"when,omitempty" yaml:"when,omitempty" mapstructure:"when"`
	To   string `json:"to" yaml:"to" mapstructure:"to"`
}

// Question is a single entry of the catalog.
type Question struct {
	// ID is unique within the catalog and independent of position.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Prompt is a display template. "{field}" placeholders are replaced
	// with previously written answers.
	Prompt string `json:"prompt" yaml:"prompt" mapstructure:"prompt"`

	Kind    Kind     `json:"kind" yaml:"kind" mapstructure:"kind"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`

	// TargetField is the key of the answer record this question writes to.
	TargetField string `json:"target_field" yaml:"target_field" mapstructure:"target_field"`
	Required    bool   `json:"required" yaml:"required" mapstructure:"required"`

	// Help is optional secondary text shown beneath the prompt.
	Help string `json:"help,omitempty" yaml:"help,omitempty" mapstructure:"help"`

	// Transitions is the ID-keyed branching table used by table navigation.
	// Linear navigation ignores it.
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// HasOption reports whether label is one of the question options.
func (q Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o == label {
			return true
		}
	}
	return false
}
