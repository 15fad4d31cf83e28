// Package coerce turns raw respondent input into the typed values stored in the
// answer record.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
)

// Record value types, as reported by ValueType.
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeList   = "[]string"
)

// DateLayouts lists the accepted calendar date formats, in order of preference.
var DateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"January 2, 2006",
}

// ValueType reports the record type a kind writes.
func ValueType(kind domain.Kind) string {
	switch kind {
	case domain.KindRating, domain.KindNumeric:
		return TypeNumber
	case domain.KindMultiSelect:
		return TypeList
	default:
		return TypeString
	}
}

// Coerce validates raw against the question and returns the value to store.
// previous is the value currently stored for the question's field, if any; it is
// only consulted by multi-select questions.
// The returned error is always a *domain.ValidationError.
func Coerce(q domain.Question, raw string, previous any) (any, error) {
	trimmed := strings.TrimSpace(raw)

	switch q.Kind {
	case domain.KindFreeText:
		if trimmed == "" && q.Required {
			return nil, invalid(q, "an answer is required")
		}
		return trimmed, nil

	case domain.KindSingleSelect:
		// An optional select may be skipped.
		if trimmed == "" && !q.Required {
			return "", nil
		}
		if !q.HasOption(trimmed) {
			return nil, invalid(q, fmt.Sprintf("%q is not one of the options", trimmed))
		}
		return trimmed, nil

	case domain.KindMultiSelect:
		return confirmSelection(q, trimmed, previous)

	case domain.KindRating:
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 1 || n > 5 {
			return nil, invalid(q, "rating must be a whole number from 1 to 5")
		}
		return n, nil

	case domain.KindDate:
		if trimmed == "" {
			if q.Required {
				return nil, invalid(q, "a date is required")
			}
			return "", nil
		}
		if _, ok := ParseDate(trimmed); !ok {
			return nil, invalid(q, fmt.Sprintf("%q is not a calendar date", trimmed))
		}
		return trimmed, nil

	case domain.KindNumeric:
		if trimmed == "" {
			if q.Required {
				return nil, invalid(q, "a number is required")
			}
			return 0, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, invalid(q, fmt.Sprintf("%q is not a whole number", trimmed))
		}
		return n, nil
	}

	panic(&domain.ProgrammerError{Op: "coerce", Detail: fmt.Sprintf("question %s has unknown kind %q", q.ID, q.Kind)})
}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func invalid(q domain.Question, reason string) *domain.ValidationError {
	return &domain.ValidationError{
		QuestionID: q.ID,
		Field:      q.TargetField,
		Reason:     reason,
	}
}
