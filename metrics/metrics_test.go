package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "consent")

	m.Requested("navigate")
	m.Requested("download")
	m.Settled(OutcomeApproved, "download", 2*time.Second)
	m.Bypassed(OutcomeDenied, "external_link")
	m.Missing()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Pending))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("navigate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues(OutcomeApproved, "download")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues(OutcomeDenied, "external_link")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotFound))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DecisionLatency))

	m.Withdrawn()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Pending))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Requested("navigate")
	m.Settled(OutcomeExpired, "navigate", time.Minute)
	m.Bypassed(OutcomeAutoApproved, "scroll")
	m.Missing()
	m.Withdrawn()
}
