package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// Mask replaces the value of every masked field.
const Mask = "***"

// DefaultPIIPatterns match the contact fields of the product feedback catalog.
var DefaultPIIPatterns = []string{`(?i)e-?mail`, `(?i)phone`, `(?i)^last_name$`}

type piiSink struct {
	next     ports.Sink
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of record fields whose
// names match one of the patterns before they reach the sink.
func NewPIIMiddleware(patternStrings []string) SinkMiddleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.Sink) ports.Sink {
		return &piiSink{next: next, patterns: patterns}
	}
}

func (m *piiSink) Submit(ctx context.Context, record domain.Record) (domain.RecordID, error) {
	// Copy so the caller's record (and the session answers behind it) stays intact.
	masked := make(domain.Record, len(record))
	for k, v := range record {
		masked[k] = v
	}
	maskMap(masked, m.patterns)
	return m.next.Submit(ctx, masked)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if k == domain.KeySource || k == domain.KeySubmittedAt {
			continue
		}
		// Empty answers carry nothing worth hiding.
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
