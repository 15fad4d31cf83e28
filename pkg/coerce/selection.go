package coerce

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
)

// Toggle flips the membership of option in the previous selection and returns
// the new set. Members are kept in catalog option order, so toggling the same
// option twice yields the original set.
// Toggling a question that is not multi-select is a programming error.
func Toggle(q domain.Question, option string, previous any) ([]string, error) {
	if q.Kind != domain.KindMultiSelect {
		panic(&domain.ProgrammerError{Op: "toggle", Detail: fmt.Sprintf("question %s is %s, not multi_select", q.ID, q.Kind)})
	}

	option = strings.TrimSpace(option)
	if !q.HasOption(option) {
		return nil, invalid(q, fmt.Sprintf("%q is not one of the options", option))
	}

	members := Members(previous)
	if _, ok := members[option]; ok {
		delete(members, option)
	} else {
		members[option] = struct{}{}
	}
	return ordered(q, members), nil
}

// Members converts a stored multi-select value into a set.
func Members(v any) map[string]struct{} {
	set := make(map[string]struct{})
	switch vals := v.(type) {
	case []string:
		for _, s := range vals {
			set[s] = struct{}{}
		}
	case []any:
		// Values round-tripped through JSON stores.
		for _, s := range vals {
			if str, ok := s.(string); ok {
				set[str] = struct{}{}
			}
		}
	}
	return set
}

// confirmSelection handles submission on a multi-select question. An empty raw
// confirms the toggled set; otherwise raw is a comma-separated full selection.
func confirmSelection(q domain.Question, raw string, previous any) ([]string, error) {
	var selected []string
	if raw == "" {
		selected = ordered(q, Members(previous))
	} else {
		members := make(map[string]struct{})
		for _, part := range strings.Split(raw, ",") {
			label := strings.TrimSpace(part)
			if label == "" {
				continue
			}
			if !q.HasOption(label) {
				return nil, invalid(q, fmt.Sprintf("%q is not one of the options", label))
			}
			members[label] = struct{}{}
		}
		selected = ordered(q, members)
	}

	if len(selected) == 0 && q.Required {
		return nil, invalid(q, "select at least one option")
	}
	return selected, nil
}

func ordered(q domain.Question, members map[string]struct{}) []string {
	out := make([]string, 0, len(members))
	for _, o := range q.Options {
		if _, ok := members[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
