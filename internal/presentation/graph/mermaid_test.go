package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/canvass/internal/presentation/graph"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New("graph", "1",
		domain.Question{ID: "first-name", Kind: domain.KindFreeText, TargetField: "first_name", Required: true},
		domain.Question{
			ID: "recommend", Kind: domain.KindSingleSelect, TargetField: "recommend",
			Options:     []string{"Yes", `Say "no"`},
			Transitions: []domain.Transition{{When: "Yes", To: "why"}, {When: `Say "no"`, To: domain.TerminalID}},
		},
		domain.Question{
			ID: "skip", Kind: domain.KindFreeText, TargetField: "skip",
			Transitions: []domain.Transition{{To: domain.TerminalID}},
		},
		domain.Question{ID: "why", Kind: domain.KindRating, TargetField: "why"},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(testCatalog(t), nil)

	contains := []string{
		"graph TD\n",
		`first_name[/"first-name<br/>free_text *"/]`,
		"first_name --> recommend",
		`recommend{"recommend<br/>single_select"}`,
		`recommend -- "Yes" --> why`,
		`recommend -- "Say 'no'" --> done`,
		"recommend -.-> skip",
		"skip --> done",
		"why --> done",
		`done(("done"))`,
	}
	for _, want := range contains {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
	if strings.Contains(got, "skip --> why") {
		t.Errorf("unconditional transition must replace the fall-through edge:\n%v", got)
	}
	if strings.Contains(got, "classDef") {
		t.Errorf("no overlay expected without a session:\n%v", got)
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	cat := testCatalog(t)
	state := domain.NewState("s1", domain.VariantAssistant)
	state.History = []int{0, 1, 1}
	state.Position = 3

	got := graph.GenerateMermaid(cat, graph.OverlayFor(cat, state))
	for _, want := range []string{"class first_name visited;", "class recommend visited;", "class why current;"} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
	if n := strings.Count(got, "class recommend visited;"); n != 1 {
		t.Errorf("visited class applied %d times, want 1", n)
	}

	state.Position = cat.Len()
	if o := graph.OverlayFor(cat, state); o.Current != domain.TerminalID {
		t.Errorf("OverlayFor().Current = %q, want %q", o.Current, domain.TerminalID)
	}
}
