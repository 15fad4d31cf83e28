package runtime

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/canvass/pkg/coerce"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/progress"
)

// Interpolator fills a prompt template from the answers collected so far.
type Interpolator func(ctx context.Context, template string, answers map[string]any) (string, error)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DefaultInterpolator replaces {field} with the stored answer. Fields that were
// not answered yet render as an empty string; unknown braces are left alone.
func DefaultInterpolator(_ context.Context, template string, answers map[string]any) (string, error) {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		v, ok := answers[m[1:len(m)-1]]
		if !ok || v == nil {
			return ""
		}
		if set, ok := v.([]string); ok {
			return strings.Join(set, ", ")
		}
		return fmt.Sprint(v)
	}), nil
}

// Render produces the actions for the current state without changing it.
// terminal is true once the session is complete.
func (c *Controller) Render(ctx context.Context, state *domain.State) (actions []domain.ActionRequest, terminal bool) {
	total := c.catalog.Len()

	q, ok := c.catalog.Get(state.Position)
	if !ok {
		return []domain.ActionRequest{
			{Type: domain.ActionProgress, Payload: domain.Progress{Position: state.Position, Total: total, Percent: 100}},
		}, true
	}

	if c.greeting != "" && state.Position == 0 && len(state.History) == 0 && len(state.Answers) == 0 {
		actions = append(actions, domain.ActionRequest{Type: domain.ActionSystemMessage, Payload: c.greeting})
	}

	actions = append(actions,
		domain.ActionRequest{Type: domain.ActionRenderContent, Payload: c.prompt(ctx, q, state)},
		domain.ActionRequest{Type: domain.ActionRequestInput, Payload: c.inputRequest(q, state)},
		domain.ActionRequest{Type: domain.ActionProgress, Payload: domain.Progress{
			Position: state.Position,
			Total:    total,
			Percent:  progress.Percent(state.Position, total),
		}},
	)
	return actions, false
}

// Prompt returns the interpolated prompt of the active question.
func (c *Controller) Prompt(ctx context.Context, state *domain.State) string {
	q, ok := c.catalog.Get(state.Position)
	if !ok {
		return ""
	}
	return c.prompt(ctx, q, state)
}

func (c *Controller) prompt(ctx context.Context, q domain.Question, state *domain.State) string {
	text, err := c.interpolator(ctx, q.Prompt, state.Answers)
	if err != nil {
		c.logger.Warn("prompt interpolation failed", "question", q.ID, "err", err)
		return q.Prompt
	}
	return text
}

func (c *Controller) inputRequest(q domain.Question, state *domain.State) domain.InputRequest {
	req := domain.InputRequest{
		QuestionID: q.ID,
		Field:      q.TargetField,
		Kind:       q.Kind,
		Options:    append([]string(nil), q.Options...),
		Required:   q.Required,
		Help:       q.Help,
	}
	if q.Kind == domain.KindMultiSelect {
		// Selected stays in option order and is never nil, so clients can render checkboxes directly.
		req.Selected = []string{}
		members := coerce.Members(state.Answers[q.TargetField])
		for _, opt := range q.Options {
			if _, ok := members[opt]; ok {
				req.Selected = append(req.Selected, opt)
			}
		}
	}
	return req
}
