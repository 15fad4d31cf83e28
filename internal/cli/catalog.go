package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

// CatalogMarkdown describes a catalog for humans: one section per question
// with its kind, target field, options and branches.
func CatalogMarkdown(cat *catalog.Catalog) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s", cat.Name())
	if cat.Version() != "" {
		fmt.Fprintf(&sb, " (v%s)", cat.Version())
	}
	fmt.Fprintf(&sb, "\n\n%d questions writing %d fields.\n", cat.Len(), len(cat.Fields()))

	for i, q := range cat.Questions() {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, q.ID)
		fmt.Fprintf(&sb, "> %s\n\n", q.Prompt)
		if q.Help != "" {
			fmt.Fprintf(&sb, "_%s_\n\n", q.Help)
		}

		required := "optional"
		if q.Required {
			required = "required"
		}
		fmt.Fprintf(&sb, "- **kind**: `%s` (%s)\n", q.Kind, required)
		fmt.Fprintf(&sb, "- **field**: `%s`\n", q.TargetField)
		if len(q.Options) > 0 {
			fmt.Fprintf(&sb, "- **options**: %s\n", strings.Join(q.Options, ", "))
		}
		for _, t := range q.Transitions {
			target := t.To
			if target == domain.TerminalID {
				target = "end"
			}
			if t.When == "" {
				fmt.Fprintf(&sb, "- **then**: %s\n", target)
			} else {
				fmt.Fprintf(&sb, "- **if** %s: %s\n", t.When, target)
			}
		}
	}
	return sb.String()
}
