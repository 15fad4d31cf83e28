package observability

import (
	"context"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of one engine.
type Metrics struct {
	QuestionViews      *prometheus.CounterVec
	Answers            *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Achievements       *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmitDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		QuestionViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvass_question_views_total",
				Help: "Times a session landed on a question",
			},
			[]string{"question_id"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvass_answers_total",
				Help: "Accepted answers per question",
			},
			[]string{"question_id"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvass_validation_failures_total",
				Help: "Rejected answers per question",
			},
			[]string{"question_id"},
		),
		Achievements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvass_achievements_total",
				Help: "Unlocked milestones",
			},
			[]string{"label"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvass_submissions_total",
				Help: "Records handed to the sink, by outcome",
			},
			[]string{"source", "outcome"},
		),
		SubmitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canvass_submit_duration_seconds",
				Help:    "Latency of sink submissions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.QuestionViews, m.Answers, m.ValidationFailures,
		m.Achievements, m.Submissions, m.SubmitDuration,
	}
}

// ObserveSubmit records one sink call.
func (m *Metrics) ObserveSubmit(source string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Submissions.WithLabelValues(source, outcome).Inc()
	m.SubmitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Hooks returns lifecycle hooks that feed the engine counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(_ context.Context, e *domain.QuestionEvent) {
			m.QuestionViews.WithLabelValues(e.QuestionID).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.QuestionEvent) {
			m.Answers.WithLabelValues(e.QuestionID).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.QuestionEvent) {
			m.ValidationFailures.WithLabelValues(e.QuestionID).Inc()
		},
		OnAchievement: func(_ context.Context, e *domain.AchievementEvent) {
			m.Achievements.WithLabelValues(e.Label).Inc()
		},
	}
}
