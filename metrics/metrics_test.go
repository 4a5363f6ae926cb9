package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveInvestigation(t *testing.T) {
	m := New()

	m.ObserveInvestigation(100, 0.0002, 50*time.Millisecond)
	m.ObserveInvestigation(20, 0.00004, 10*time.Millisecond)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.requests))
	assert.Equal(t, float64(120), testutil.ToFloat64(m.tokens))
	assert.InDelta(t, 0.00004, testutil.ToFloat64(m.averageCost), 1e-12)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest()
	m.ObserveRequest()
	m.ObserveRequest()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requests))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.tokens))
}

func TestMetrics_ObserveStep(t *testing.T) {
	m := New()

	m.ObserveStep("get_pods", true, time.Millisecond)
	m.ObserveStep("get_pods", true, time.Millisecond)
	m.ObserveStep("get_pod_logs", false, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.stepExecutions.WithLabelValues("get_pods", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stepExecutions.WithLabelValues("get_pod_logs", "false")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(func(o *Options) { o.Namespace = "alertmesh" })
	m.ObserveRequest()
	m.ObserveInvestigation(5, 0.00001, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "alertmesh_agent_requests_total 1"), body)
	assert.Contains(t, body, "alertmesh_agent_tokens_total 5")
	assert.Contains(t, body, "alertmesh_agent_average_cost")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveRequest()

	assert.Equal(t, float64(0), testutil.ToFloat64(b.requests))

	n, err := testutil.GatherAndCount(a.Registry(), "agent_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
