package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/espalier/pkg/domain"
)

// Metrics holds the traversal counters exposed at /metrics. Counters for
// successful operations are fed by lifecycle hooks wired into the engine;
// rejection counters are fed by the HTTP error mapper.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted prometheus.Counter
	Choices         prometheus.Counter
	StepsBack       prometheus.Counter
	WalksCompleted  prometheus.Counter
	TraversalErrors *prometheus.CounterVec
}

// NewMetrics creates the counters on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_sessions_started_total",
			Help: "Total number of walk sessions started",
		}),
		Choices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_choices_total",
			Help: "Total number of options taken",
		}),
		StepsBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_steps_back_total",
			Help: "Total number of undone choices",
		}),
		WalksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_walks_completed_total",
			Help: "Total number of walks that reached a leaf",
		}),
		TraversalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_traversal_errors_total",
			Help: "Total number of rejected operations by reason",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		m.SessionsStarted,
		m.Choices,
		m.StepsBack,
		m.WalksCompleted,
		m.TraversalErrors,
	)
	return m
}

// Hooks returns lifecycle hooks feeding the success counters. Pass them
// to the engine construction serving this handler.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(e *domain.NodeEvent) {
			m.SessionsStarted.Inc()
		},
		OnNodeEnter: func(e *domain.NodeEvent) {
			if e.Kind == domain.KindLeaf {
				m.WalksCompleted.Inc()
			}
		},
		OnChoice: func(e *domain.ChoiceEvent) {
			m.Choices.Inc()
		},
		OnStepBack: func(e *domain.NodeEvent) {
			m.StepsBack.Inc()
		},
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeError(reason string) {
	m.TraversalErrors.WithLabelValues(reason).Inc()
}
