package runner_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/dsl"
	"github.com/aretw0/canvass/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCatalog() *catalog.Catalog {
	return dsl.New("scenario", "1").
		Add("name").Ask("What's your name?").Required().
		Add("satisfaction").Ask("How satisfied are you, {name}?").Rating().Required().
		Add("notes").Ask("Anything else?").
		MustBuild()
}

type result struct {
	state *domain.State
	err   error
}

// runWithTimeout guards against a runner blocked on input.
func runWithTimeout(t *testing.T, r *runner.Runner, eng *canvass.Engine, initial *domain.State) (*domain.State, error) {
	t.Helper()
	done := make(chan result, 1)
	go func() {
		state, err := r.Run(context.Background(), eng, initial)
		done <- result{state, err}
	}()

	select {
	case res := <-done:
		return res.state, res.err
	case <-time.After(2 * time.Second):
		t.Fatal("Runner timed out")
		return nil, nil
	}
}

func TestRunner_Run_Scenario(t *testing.T) {
	sink := memory.NewSink()
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()), canvass.WithSink(sink))

	in := strings.NewReader("\nAsha\n6\n4\n\n")
	out := &bytes.Buffer{}
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(in, out)))

	state, err := runWithTimeout(t, r, eng, nil)
	require.NoError(t, err)
	assert.True(t, eng.IsComplete(state))

	text := out.String()
	assert.Contains(t, text, "What's your name?")
	assert.Contains(t, text, "an answer is required")
	assert.Contains(t, text, "How satisfied are you, Asha?")
	assert.Contains(t, text, "rating must be a whole number from 1 to 5")
	assert.Contains(t, text, "Achievement unlocked: Ice breaker")
	assert.Contains(t, text, "Thank you!")

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Asha", records[0]["name"])
	assert.Equal(t, 4, records[0]["satisfaction"])
	assert.Equal(t, "", records[0]["notes"])
}

func TestRunner_Commands(t *testing.T) {
	cat := dsl.New("commands", "1").
		Add("name").Ask("Name?").Required().
		Add("features").Ask("Which features, {name}?").MultiSelect("Search", "Export", "Sharing").Required().
		MustBuild()
	sink := memory.NewSink()
	eng := canvass.New(canvass.WithCatalog(cat), canvass.WithSink(sink), canvass.WithMilestones())

	input := strings.Join([]string{
		"Ana",
		"back",
		"Bo",
		"toggle Sharing",
		"toggle Search",
		"toggle Sharing",
		"toggle Nope",
		"",
	}, "\n") + "\n"
	out := &bytes.Buffer{}
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), out)))

	state, err := runWithTimeout(t, r, eng, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bo", state.Answers["name"])
	assert.Equal(t, []string{"Search"}, state.Answers["features"])
	assert.Contains(t, out.String(), `"Nope" is not one of the options`)
	assert.Contains(t, out.String(), "[x] Search")
	require.Len(t, sink.Records(), 1)
}

func TestRunner_ToggleOnTextQuestionIsAnAnswer(t *testing.T) {
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()))
	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("toggle me\nexit\n"), &bytes.Buffer{})))

	state, err := runWithTimeout(t, r, eng, nil)
	require.NoError(t, err)
	assert.Equal(t, "toggle me", state.Answers["name"])
}

func TestRunner_ExitAndResume(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sink := memory.NewSink()
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()), canvass.WithSink(sink))
	sessions := runner.NewSessionManager(store)

	state, loaded, err := sessions.LoadOrStart(ctx, eng, "respondent-1", domain.VariantWizard)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "respondent-1", state.ID)

	r := runner.NewRunner(
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("Asha\nquit\n"), &bytes.Buffer{})),
	)
	paused, err := runWithTimeout(t, r, eng, state)
	require.NoError(t, err)
	assert.Equal(t, 1, paused.Position)

	resumed, loaded, err := sessions.LoadOrStart(ctx, eng, "respondent-1", domain.VariantChat)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, domain.VariantWizard, resumed.Variant, "a resumed session keeps its variant")
	assert.Equal(t, "Asha", resumed.Answers["name"])

	r = runner.NewRunner(
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("5\nall good\n"), &bytes.Buffer{})),
	)
	done, err := runWithTimeout(t, r, eng, resumed)
	require.NoError(t, err)
	assert.True(t, eng.IsComplete(done))
	require.Len(t, sink.Records(), 1)

	_, err = store.Load(ctx, "respondent-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "submitted sessions are discarded")
}

func TestRunner_EOFPauses(t *testing.T) {
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()))
	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("Asha"), &bytes.Buffer{})))

	state, err := runWithTimeout(t, r, eng, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position, "a final line without newline is still read")
}

func TestRunner_FinalizeRetry(t *testing.T) {
	sink := memory.NewSink()
	sink.FailNext(errors.New("collector down"))
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()), canvass.WithSink(sink))

	out := &bytes.Buffer{}
	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("Asha\n3\n\nretry\n"), out)))

	_, err := runWithTimeout(t, r, eng, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "collector down")
	assert.Contains(t, out.String(), "Thank you!")
	assert.Len(t, sink.Records(), 1)
}

func TestRunner_FinalizeGiveUp(t *testing.T) {
	sink := memory.NewSink()
	sink.FailNext(errors.New("collector down"))
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()), canvass.WithSink(sink))

	r := runner.NewRunner(runner.WithInputHandler(
		runner.NewTextHandler(strings.NewReader("Asha\n3\n\nexit\n"), &bytes.Buffer{})))

	state, err := runWithTimeout(t, r, eng, nil)
	require.Error(t, err)
	assert.True(t, domain.IsSubmission(err))
	assert.True(t, eng.IsComplete(state))
	assert.Empty(t, sink.Records())
}

func TestRunner_Canceled(t *testing.T) {
	eng := canvass.New(canvass.WithCatalog(scenarioCatalog()))
	// A pipe that never delivers input.
	in, _ := io.Pipe()
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(in, &bytes.Buffer{})))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	state, err := r.Run(ctx, eng, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, state.Position)
}
