package catalog

import (
	"fmt"

	"github.com/aretw0/canvass/pkg/domain"
)

// Catalog is an ordered, immutable list of questions.
type Catalog struct {
	name      string
	version   string
	questions []domain.Question
	index     map[string]int
}

// New validates the questions and returns a catalog.
func New(name, version string, questions ...domain.Question) (*Catalog, error) {
	c := &Catalog{
		name:      name,
		version:   version,
		questions: make([]domain.Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		q.Transitions = append([]domain.Transition(nil), q.Transitions...)
		c.questions[i] = q
		c.index[q.ID] = i
	}
	if err := Validate(c.questions); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is like New but panics on an invalid catalog.
func MustNew(name, version string, questions ...domain.Question) *Catalog {
	c, err := New(name, version, questions...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the catalog name.
func (c *Catalog) Name() string { return c.name }

// Version returns the catalog version label.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of questions. It is also the terminal position.
func (c *Catalog) Len() int { return len(c.questions) }

// Get returns the question at position. ok is false at the terminal position.
// Any other out-of-range position panics.
func (c *Catalog) Get(position int) (q domain.Question, ok bool) {
	if position == len(c.questions) {
		return domain.Question{}, false
	}
	if position < 0 || position > len(c.questions) {
		panic(&domain.ProgrammerError{
			Op:     "catalog.Get",
			Detail: fmt.Sprintf("position %d out of range [0,%d]", position, len(c.questions)),
		})
	}
	return c.questions[position], true
}

// IndexOf returns the position of the question with the given ID.
func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Questions returns a copy of the question list.
func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Fields returns the distinct target fields in catalog order.
func (c *Catalog) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, q := range c.questions {
		if !seen[q.TargetField] {
			seen[q.TargetField] = true
			fields = append(fields, q.TargetField)
		}
	}
	return fields
}
