package dsl

import (
	"fmt"

	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

// Builder manages the catalog construction.
type Builder struct {
	name    string
	version string
	order   []string
	nodes   map[string]*QuestionBuilder
}

// New creates a new catalog builder.
func New(name, version string) *Builder {
	return &Builder{
		name:    name,
		version: version,
		nodes:   make(map[string]*QuestionBuilder),
	}
}

// Add appends a question to the catalog.
// If the question already exists, it returns the existing builder without
// changing its position.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.nodes[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			ID:          id,
			Kind:        domain.KindFreeText,
			TargetField: id,
		},
		builder: b,
	}
	b.nodes[id] = qb
	b.order = append(b.order, id)
	return qb
}

// Build validates and compiles the questions into a Catalog.
func (b *Builder) Build() (*catalog.Catalog, error) {
	questions := make([]domain.Question, 0, len(b.order))
	for _, id := range b.order {
		questions = append(questions, b.nodes[id].question)
	}

	c, err := catalog.New(b.name, b.version, questions...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return c, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *catalog.Catalog {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
