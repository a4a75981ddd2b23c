// Package metrics exposes Prometheus instruments for approval outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeApproved     = "approved"
	OutcomeCancelled    = "cancelled"
	OutcomeTimedOut     = "timeout"
	OutcomeExpired      = "expired"
	OutcomeDenied       = "denied"
	OutcomeAutoApproved = "auto_approved"
)

// Metrics groups the registry instruments. A nil *Metrics is a valid no-op.
type Metrics struct {
	Requests        *prometheus.CounterVec
	Outcomes        *prometheus.CounterVec
	Pending         prometheus.Gauge
	NotFound        prometheus.Counter
	DecisionLatency *prometheus.HistogramVec
}

// New registers the instruments with reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_requests_total",
			Help:      "Total number of approval requests by action type",
		}, []string{"action_type"}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_outcomes_total",
			Help:      "Total number of settled approval requests by outcome and action type",
		}, []string{"outcome", "action_type"}),
		Pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "approval_pending",
			Help:      "Current number of pending approval requests",
		}),
		NotFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_not_found_total",
			Help:      "Total number of decisions referencing an unknown action",
		}),
		DecisionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "approval_decision_seconds",
			Help:      "Time from request to outcome",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 300},
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Requested(actionType string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(actionType).Inc()
	m.Pending.Inc()
}

// Settled records the outcome of a pending action that lived for age.
func (m *Metrics) Settled(outcome, actionType string, age time.Duration) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome, actionType).Inc()
	m.DecisionLatency.WithLabelValues(outcome).Observe(age.Seconds())
	m.Pending.Dec()
}

// Bypassed records an outcome decided by policy without a pending action.
func (m *Metrics) Bypassed(outcome, actionType string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome, actionType).Inc()
}

func (m *Metrics) Missing() {
	if m == nil {
		return
	}
	m.NotFound.Inc()
}

// Withdrawn reverts the pending gauge for a request that was never shown.
func (m *Metrics) Withdrawn() {
	if m == nil {
		return
	}
	m.Pending.Dec()
}
