package runtime_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/canvass/internal/runtime"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/dsl"
	"github.com/aretw0/canvass/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ashaCatalog() *catalog.Catalog {
	return dsl.New("scenario", "1").
		Add("name").Ask("What's your name?").Required().
		Add("satisfaction").Ask("How satisfied are you, {name}?").Rating().Required().
		Add("notes").Ask("Anything else?").
		MustBuild()
}

func fixedIDs() runtime.Option {
	n := 0
	return runtime.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	})
}

func TestController_Scenario(t *testing.T) {
	ctx := context.Background()
	c := runtime.New(ashaCatalog(), fixedIDs())

	state := c.Start(ctx, domain.VariantWizard)
	assert.Equal(t, "session-1", state.ID)
	assert.True(t, state.Initialized)
	assert.Equal(t, 0, state.Position)

	state, err := c.SubmitAnswer(ctx, state, "Asha")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, "Asha", state.Answers["name"])

	rejected, err := c.SubmitAnswer(ctx, state, "6")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "satisfaction", verr.QuestionID)
	assert.Same(t, state, rejected)
	assert.Equal(t, 1, rejected.Position)

	state, err = c.SubmitAnswer(ctx, state, "4")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Position)

	state, err = c.SubmitAnswer(ctx, state, "")
	require.NoError(t, err)
	assert.True(t, c.IsComplete(state))
	assert.Equal(t, map[string]any{"name": "Asha", "satisfaction": 4, "notes": ""}, state.Answers)

	_, err = c.SubmitAnswer(ctx, state, "late")
	assert.ErrorIs(t, err, domain.ErrSessionComplete)
}

func TestController_RequiredEmptyNeverAdvances(t *testing.T) {
	ctx := context.Background()
	cat := dsl.New("required", "1").
		Add("name").Required().
		Add("color").SingleSelect("red", "blue").Required().
		Add("tags").MultiSelect("a", "b").Required().
		Add("born").Date().Required().
		Add("age").Numeric().Required().
		Add("stars").Rating().Required().
		MustBuild()
	c := runtime.New(cat)

	answers := []string{"Ana", "red", "a", "2024-01-02", "30", "5"}
	state := c.Start(ctx, domain.VariantForm)
	for i, q := range cat.Questions() {
		for _, blank := range []string{"", "   ", "\t\n"} {
			next, err := c.SubmitAnswer(ctx, state, blank)
			require.Error(t, err, "question %s accepted %q", q.ID, blank)
			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, i, next.Position)
			_, written := next.Answers[q.TargetField]
			assert.False(t, written, "question %s wrote a value", q.ID)
		}
		var err error
		state, err = c.SubmitAnswer(ctx, state, answers[i])
		require.NoError(t, err)
	}
	assert.True(t, c.IsComplete(state))
}

func TestController_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	c := runtime.New(ashaCatalog())

	first := c.Start(ctx, domain.VariantChat)
	second, err := c.SubmitAnswer(ctx, first, "Asha")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Position)
	assert.Empty(t, first.Answers)
	assert.Empty(t, first.History)
	assert.Empty(t, first.Transcript)
	assert.Equal(t, 1, second.Position)
}

func TestController_GoBack(t *testing.T) {
	ctx := context.Background()
	c := runtime.New(ashaCatalog())

	state := c.Start(ctx, domain.VariantWizard)
	assert.Same(t, state, c.GoBack(ctx, state), "going back from the first question is a no-op")

	state, _ = c.SubmitAnswer(ctx, state, "Asha")
	state, _ = c.SubmitAnswer(ctx, state, "4")
	require.Equal(t, 2, state.Position)

	state = c.GoBack(ctx, state)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, 4, state.Answers["satisfaction"], "answers survive going back")

	state, err := c.SubmitAnswer(ctx, state, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Position)
	assert.Equal(t, map[string]any{"name": "Asha", "satisfaction": 2}, state.Answers)
}

func TestController_GoBackFromTerminal(t *testing.T) {
	ctx := context.Background()
	c := runtime.New(ashaCatalog())

	state := c.Start(ctx, domain.VariantWizard)
	for _, in := range []string{"Asha", "4", "fine"} {
		state, _ = c.SubmitAnswer(ctx, state, in)
	}
	require.True(t, c.IsComplete(state))

	state = c.GoBack(ctx, state)
	assert.False(t, c.IsComplete(state))
	q, ok := c.Current(state)
	require.True(t, ok)
	assert.Equal(t, "notes", q.ID)
}

func TestController_Toggle(t *testing.T) {
	ctx := context.Background()
	cat := dsl.New("multi", "1").
		Add("features").MultiSelect("Speed", "Design", "Price").
		Add("name").
		MustBuild()
	c := runtime.New(cat)
	state := c.Start(ctx, domain.VariantForm)

	before := state
	state, err := c.Toggle(ctx, state, "Price")
	require.NoError(t, err)
	state, err = c.Toggle(ctx, state, "Speed")
	require.NoError(t, err)
	assert.Equal(t, []string{"Speed", "Price"}, state.Answers["features"])
	assert.Equal(t, 0, state.Position, "toggling never advances")

	again, err := c.Toggle(ctx, state, "Design")
	require.NoError(t, err)
	again, err = c.Toggle(ctx, again, "Design")
	require.NoError(t, err)
	assert.Equal(t, state.Answers, again.Answers, "double toggle is an identity")
	assert.Empty(t, before.Answers)

	_, err = c.Toggle(ctx, state, "Color")
	assert.True(t, domain.IsValidation(err))

	state, err = c.SubmitAnswer(ctx, state, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Speed", "Price"}, state.Answers["features"])

	assert.PanicsWithError(t, "canvass: toggle: question name is free_text, not multi_select", func() {
		_, _ = c.Toggle(ctx, state, "Speed")
	})
}

func TestController_Transcript(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	c := runtime.New(ashaCatalog(),
		runtime.WithGreeting("Welcome!"),
		runtime.WithClock(func() time.Time { return clock }),
	)

	chat := c.Start(ctx, domain.VariantChat)
	require.Len(t, chat.Transcript, 1)
	assert.Equal(t, domain.RoleSystem, chat.Transcript[0].Role)

	// Re-mounting must not greet twice.
	assert.Same(t, chat, c.Greet(ctx, chat))

	chat, _ = c.SubmitAnswer(ctx, chat, " Asha ")
	chat, _ = c.SubmitAnswer(ctx, chat, "4")
	require.Len(t, chat.Transcript, 5)
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Text: "What's your name?", Timestamp: clock}, chat.Transcript[1])
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Text: "Asha", Timestamp: clock}, chat.Transcript[2])
	assert.Equal(t, "How satisfied are you, Asha?", chat.Transcript[3].Text)

	wizard := c.Start(ctx, domain.VariantWizard)
	wizard, _ = c.SubmitAnswer(ctx, wizard, "Asha")
	assert.Empty(t, wizard.Transcript)
}

func TestController_Achievements(t *testing.T) {
	ctx := context.Background()
	cat := dsl.New("four", "1").Add("a").Add("b").Add("c").Add("d").MustBuild()

	var announced []string
	c := runtime.New(cat,
		runtime.WithTracker(progress.NewTracker(progress.Positions(map[int]string{1: "Started", 2: "Halfway"})...)),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnAchievement: func(_ context.Context, e *domain.AchievementEvent) {
				announced = append(announced, e.Label)
			},
		}),
	)

	state := c.Start(ctx, domain.VariantWizard)
	for i := 0; i < 3; i++ {
		var err error
		state, err = c.SubmitAnswer(ctx, state, "x")
		require.NoError(t, err)
		// Rendering recomputes progress and must not unlock anything.
		c.Render(ctx, state)
	}
	assert.Equal(t, []string{"Started", "Halfway"}, state.Achievements)
	assert.Equal(t, []string{"Started", "Halfway"}, announced)

	// Going back and answering again does not re-unlock.
	state = c.GoBack(ctx, state)
	state, _ = c.SubmitAnswer(ctx, state, "y")
	assert.Equal(t, []string{"Started", "Halfway"}, state.Achievements)
}

func TestController_ProgressMonotonic(t *testing.T) {
	ctx := context.Background()
	c := runtime.New(catalog.Default())
	state := c.Start(ctx, domain.VariantWizard)

	inputs := map[string]string{
		"first_name":        "Asha",
		"purchase_date":     "2024-05-17",
		"usage_frequency":   "Daily",
		"favorite_features": "Design, Price",
		"satisfaction":      "4",
		"ease_of_use":       "5",
		"recommend":         "Yes",
		"pain_points":       "none",
		"contact_consent":   "No",
	}

	last := -1
	for !c.IsComplete(state) {
		p := c.Percent(state)
		assert.GreaterOrEqual(t, p, last)
		last = p

		q, _ := c.Current(state)
		next, err := c.SubmitAnswer(ctx, state, inputs[q.ID])
		require.NoError(t, err, "question %s", q.ID)
		state = next
	}
	assert.Equal(t, 100, c.Percent(state))
}
