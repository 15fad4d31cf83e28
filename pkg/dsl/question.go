package dsl

import (
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// Ask sets the prompt template.
func (q *QuestionBuilder) Ask(prompt string) *QuestionBuilder {
	q.question.Prompt = prompt
	return q
}

// Help sets the secondary text.
func (q *QuestionBuilder) Help(text string) *QuestionBuilder {
	q.question.Help = text
	return q
}

// Into sets the target field. It defaults to the question ID.
func (q *QuestionBuilder) Into(field string) *QuestionBuilder {
	q.question.TargetField = field
	return q
}

// Required marks the question as mandatory.
func (q *QuestionBuilder) Required() *QuestionBuilder {
	q.question.Required = true
	return q
}

// FreeText collects a trimmed string (the default).
func (q *QuestionBuilder) FreeText() *QuestionBuilder {
	return q.kind(domain.KindFreeText)
}

// SingleSelect collects exactly one of the options.
func (q *QuestionBuilder) SingleSelect(options ...string) *QuestionBuilder {
	return q.kind(domain.KindSingleSelect, options...)
}

// MultiSelect collects any subset of the options.
func (q *QuestionBuilder) MultiSelect(options ...string) *QuestionBuilder {
	return q.kind(domain.KindMultiSelect, options...)
}

// Rating collects a star count from 1 to 5.
func (q *QuestionBuilder) Rating() *QuestionBuilder {
	return q.kind(domain.KindRating)
}

// Date collects a calendar date.
func (q *QuestionBuilder) Date() *QuestionBuilder {
	return q.kind(domain.KindDate)
}

// Numeric collects a whole number.
func (q *QuestionBuilder) Numeric() *QuestionBuilder {
	return q.kind(domain.KindNumeric)
}

// When branches to target when the answer equals value (table navigation only).
func (q *QuestionBuilder) When(value, target string) *QuestionBuilder {
	q.question.Transitions = append(q.question.Transitions, domain.Transition{When: value, To: target})
	return q
}

// Go adds an unconditional transition to target (table navigation only).
func (q *QuestionBuilder) Go(target string) *QuestionBuilder {
	q.question.Transitions = append(q.question.Transitions, domain.Transition{To: target})
	return q
}

// Add starts the next question, allowing one chain for the whole catalog.
func (q *QuestionBuilder) Add(id string) *QuestionBuilder {
	return q.builder.Add(id)
}

// Build ends a chain by building the whole catalog.
func (q *QuestionBuilder) Build() (*catalog.Catalog, error) {
	return q.builder.Build()
}

// MustBuild is like Build but panics on error.
func (q *QuestionBuilder) MustBuild() *catalog.Catalog {
	return q.builder.MustBuild()
}

func (q *QuestionBuilder) kind(k domain.Kind, options ...string) *QuestionBuilder {
	q.question.Kind = k
	q.question.Options = options
	return q
}
