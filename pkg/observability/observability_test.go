package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	hooks := m.Hooks()
	hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{QuestionID: "age"})
	hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{QuestionID: "age"})
	hooks.OnValidationFailed(ctx, &domain.QuestionEvent{QuestionID: "age"})
	hooks.OnAnswer(ctx, &domain.QuestionEvent{QuestionID: "age"})
	hooks.OnAchievement(ctx, &domain.AchievementEvent{Label: "Started"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuestionViews.WithLabelValues("age")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("age")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("age")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Achievements.WithLabelValues("Started")))

	m.ObserveSubmit("chat", nil, 10*time.Millisecond)
	m.ObserveSubmit("chat", errors.New("down"), time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("chat", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("chat", "error")))

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestLogHooks_NeverLogAnswerValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)

	hooks.OnAnswer(context.Background(), &domain.QuestionEvent{
		EventBase:  domain.EventBase{SessionID: "s1"},
		QuestionID: "email",
		Field:      "email",
		Value:      "asha@example.com",
	})

	assert.Contains(t, buf.String(), "question_id=email")
	assert.NotContains(t, buf.String(), "asha@example.com")
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnAchievement: func(context.Context, *domain.AchievementEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnAchievement: func(context.Context, *domain.AchievementEvent) { calls = append(calls, "b") }}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnAchievement(context.Background(), &domain.AchievementEvent{})
	h.OnSubmit(context.Background(), &domain.SubmitEvent{})

	assert.Equal(t, []string{"a", "b"}, calls)
}
