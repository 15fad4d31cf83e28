package catalog

import (
	"errors"
	"fmt"

	"github.com/aretw0/canvass/pkg/coerce"
	"github.com/aretw0/canvass/pkg/domain"
)

// ValidationError collects every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid catalog: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid catalog: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// ErrEmpty is returned for a catalog without questions.
var ErrEmpty = errors.New("catalog has no questions")

// Validate checks the structural invariants of a question list.
func Validate(questions []domain.Question) error {
	if len(questions) == 0 {
		return ErrEmpty
	}

	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	ids := make(map[string]bool, len(questions))
	fieldTypes := make(map[string]string)
	fieldOwner := make(map[string]string)

	for i, q := range questions {
		if q.ID == "" {
			report("question %d has no id", i)
		} else if ids[q.ID] {
			report("duplicate question id %q", q.ID)
		} else if q.ID == domain.TerminalID {
			report("question id %q is reserved", q.ID)
		}
		ids[q.ID] = true

		if !q.Kind.Valid() {
			report("question %q has unknown kind %q", q.ID, q.Kind)
			continue
		}
		if q.Kind.IsSelect() && len(q.Options) == 0 {
			report("question %q is %s but has no options", q.ID, q.Kind)
		}
		if !q.Kind.IsSelect() && len(q.Options) > 0 {
			report("question %q is %s and must not declare options", q.ID, q.Kind)
		}
		if q.TargetField == "" {
			report("question %q has no target_field", q.ID)
			continue
		}
		if q.TargetField == domain.KeySubmittedAt || q.TargetField == domain.KeySource {
			report("question %q writes reserved field %q", q.ID, q.TargetField)
		}

		typ := coerce.ValueType(q.Kind)
		if prev, ok := fieldTypes[q.TargetField]; ok && prev != typ {
			report("field %q is written as %s by %q and as %s by %q", q.TargetField, prev, fieldOwner[q.TargetField], typ, q.ID)
		} else if !ok {
			fieldTypes[q.TargetField] = typ
			fieldOwner[q.TargetField] = q.ID
		}
	}

	// Transition targets are checked once every ID is known.
	position := make(map[string]int, len(questions))
	for i, q := range questions {
		position[q.ID] = i
	}
	for i, q := range questions {
		for _, t := range q.Transitions {
			if t.To != domain.TerminalID && !ids[t.To] {
				report("question %q transitions to unknown question %q", q.ID, t.To)
			} else if t.To != domain.TerminalID && position[t.To] <= i {
				report("question %q transitions backwards to %q", q.ID, t.To)
			}
			if t.When != "" && q.Kind == domain.KindSingleSelect && !q.HasOption(t.When) {
				report("question %q branches on %q which is not an option", q.ID, t.When)
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
