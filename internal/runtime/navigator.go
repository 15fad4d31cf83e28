package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

// Navigator selects the position that follows an answered question.
// It sees the coerced value, never the prompt text.
type Navigator interface {
	Next(cat *catalog.Catalog, position int, value any) int
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(cat *catalog.Catalog, position int, value any) int

func (f NavigatorFunc) Next(cat *catalog.Catalog, position int, value any) int {
	return f(cat, position, value)
}

// Linear advances in strict catalog order.
var Linear Navigator = NavigatorFunc(func(_ *catalog.Catalog, position int, _ any) int {
	return position + 1
})

// Table follows the question's transition table. The first transition whose When
// matches the answer wins; a transition without When always matches. When nothing
// matches, the flow continues in catalog order.
var Table Navigator = NavigatorFunc(func(cat *catalog.Catalog, position int, value any) int {
	q, _ := cat.Get(position)
	for _, t := range q.Transitions {
		if t.When != "" && !matches(t.When, value) {
			continue
		}
		if t.To == domain.TerminalID {
			return cat.Len()
		}
		next, ok := cat.IndexOf(t.To)
		if !ok {
			panic(&domain.ProgrammerError{Op: "navigate", Detail: fmt.Sprintf("question %s transitions to unknown %s", q.ID, t.To)})
		}
		return next
	}
	return position + 1
})

// matches compares a transition guard with a coerced value. Multi-select
// answers match when the guard is one of the selected options.
func matches(when string, value any) bool {
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			if strings.EqualFold(s, when) {
				return true
			}
		}
		return false
	case string:
		return strings.EqualFold(v, when)
	default:
		return fmt.Sprint(v) == when
	}
}

func (c *Controller) navigatorFor(variant domain.Variant) Navigator {
	if c.navigator != nil {
		return c.navigator
	}
	if variant == domain.VariantAssistant {
		return Table
	}
	return Linear
}
