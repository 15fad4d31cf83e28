package canvass_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/dsl"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourQuestions() *catalog.Catalog {
	return dsl.New("four", "1").
		Add("a").Required().
		Add("b").Required().
		Add("c").Required().
		Add("d").Required().
		MustBuild()
}

func TestNew_Defaults(t *testing.T) {
	eng := canvass.New()

	assert.Equal(t, catalog.Default().Name(), eng.Catalog().Name())
	assert.IsType(t, &memory.Sink{}, eng.Sink())

	var _ ports.Engine = eng
}

func TestEngine_Achievements(t *testing.T) {
	ctx := context.Background()
	eng := canvass.New(
		canvass.WithCatalog(fourQuestions()),
		canvass.WithMilestones(progress.Positions(map[int]string{1: "Started", 2: "Halfway"})...),
	)

	state := eng.Start(ctx, domain.VariantChat)
	for _, answer := range []string{"1", "2", "3"} {
		var err error
		state, err = eng.SubmitAnswer(ctx, state, answer)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Started", "Halfway"}, eng.Achievements(state))

	// Recomputing progress must not re-emit anything already unlocked.
	assert.Equal(t, 100, eng.ProgressPercent(state))
	assert.Equal(t, []string{"Started", "Halfway"}, eng.Achievements(state))

	state, err := eng.SubmitAnswer(ctx, state, "4")
	require.NoError(t, err)
	assert.True(t, eng.IsComplete(state))
	assert.Equal(t, []string{"Started", "Halfway"}, eng.Achievements(state))
	assert.Equal(t, 100, eng.ProgressPercent(state))
}

func TestEngine_Achievements_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	eng := canvass.New(canvass.WithCatalog(fourQuestions()))

	state, err := eng.SubmitAnswer(ctx, eng.Start(ctx, domain.VariantWizard), "x")
	require.NoError(t, err)

	got := eng.Achievements(state)
	require.Equal(t, []string{"Ice breaker"}, got)
	got[0] = "tampered"
	assert.Equal(t, []string{"Ice breaker"}, state.Achievements)
}

func TestEngine_FinalizeRetry(t *testing.T) {
	ctx := context.Background()
	sink := memory.NewSink()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	eng := canvass.New(
		canvass.WithCatalog(fourQuestions()),
		canvass.WithSink(sink),
		canvass.WithSource("kiosk"),
		canvass.WithClock(func() time.Time { return clock }),
	)

	state := eng.Start(ctx, domain.VariantForm)
	_, err := eng.Finalize(ctx, state)
	assert.ErrorIs(t, err, domain.ErrIncomplete)

	for _, answer := range []string{"1", "2", "3", "4"} {
		state, err = eng.SubmitAnswer(ctx, state, answer)
		require.NoError(t, err)
	}

	sink.FailNext(errors.New("connection refused"))
	_, err = eng.Finalize(ctx, state)
	require.Error(t, err)
	assert.True(t, domain.IsSubmission(err))
	assert.Empty(t, sink.Records())

	id, err := eng.Finalize(ctx, state)
	require.NoError(t, err)
	record, err := sink.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Record{
		"a":                  "1",
		"b":                  "2",
		"c":                  "3",
		"d":                  "4",
		domain.KeySource:      "kiosk",
		domain.KeySubmittedAt: "2024-05-01T12:00:00Z",
	}, record)
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()
	var answered []string
	var submitted int

	eng := canvass.New(
		canvass.WithCatalog(fourQuestions()),
		canvass.WithMilestones(),
		canvass.WithLifecycleHooks(domain.LifecycleHooks{
			OnAnswer: func(_ context.Context, e *domain.QuestionEvent) {
				answered = append(answered, e.QuestionID)
			},
			OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
				submitted++
			},
		}),
	)

	state := eng.Start(ctx, domain.VariantWizard)
	for _, answer := range []string{"1", "2", "3", "4"} {
		state, _ = eng.SubmitAnswer(ctx, state, answer)
	}
	_, err := eng.Finalize(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, answered)
	assert.Equal(t, 1, submitted)
	assert.Empty(t, eng.Achievements(state))
}

func TestEngine_RenderAndBack(t *testing.T) {
	ctx := context.Background()
	eng := canvass.New(canvass.WithCatalog(fourQuestions()))

	state := eng.Start(ctx, domain.VariantWizard)
	next, err := eng.SubmitAnswer(ctx, state, "first")
	require.NoError(t, err)

	back := eng.GoBack(ctx, next)
	q, ok := eng.CurrentQuestion(back)
	require.True(t, ok)
	assert.Equal(t, "a", q.ID)
	assert.Equal(t, "first", back.Answers["a"], "going back keeps the stored answer")

	actions, terminal := eng.Render(ctx, back)
	assert.False(t, terminal)
	assert.NotEmpty(t, actions)
}
