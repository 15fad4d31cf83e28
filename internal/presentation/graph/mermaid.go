// Package graph draws a catalog's question flow as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

// Overlay marks where a session has been on the chart.
type Overlay struct {
	Visited []string
	Current string
}

// OverlayFor builds the overlay of state: its history plus the active
// question, or the terminal node once the session is complete.
func OverlayFor(cat *catalog.Catalog, state *domain.State) *Overlay {
	o := &Overlay{Current: domain.TerminalID}
	for _, pos := range state.History {
		if q, ok := cat.Get(pos); ok {
			o.Visited = append(o.Visited, q.ID)
		}
	}
	if q, ok := cat.Get(state.Position); ok {
		o.Current = q.ID
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) of the catalog.
// Shapes:
// - Branching question: {Rhombus}
// - Other questions: [/Parallelogram/]
// - Terminal: ((Circle))
//
// Guarded transitions are labelled with their guard. The fall-through to the
// next question is dotted when the question also branches, since it is only
// taken when no guard matched.
func GenerateMermaid(cat *catalog.Catalog, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	questions := cat.Questions()
	for i, q := range questions {
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[/", "/]"
		if len(q.Transitions) > 0 {
			opener, closer = "{", "}"
		}

		label := fmt.Sprintf("%s<br/>%s", escapeLabel(q.ID), q.Kind)
		if q.Required {
			label += " *"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		unconditional := false
		for _, t := range q.Transitions {
			safeTo := sanitizeMermaidID(t.To)
			if t.When == "" {
				unconditional = true
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, safeTo))
				break
			}
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, escapeLabel(t.When), safeTo))
		}
		if unconditional {
			continue
		}

		next := domain.TerminalID
		if i+1 < len(questions) {
			next = questions[i+1].ID
		}
		arrow := "-->"
		if len(q.Transitions) > 0 {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(next)))
	}
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", domain.TerminalID, domain.TerminalID))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
