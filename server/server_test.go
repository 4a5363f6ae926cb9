package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/alertmesh/agent"
	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/internal/testutil"
	"github.com/hupe1980/alertmesh/metrics"
	"github.com/hupe1980/alertmesh/model"
	"github.com/hupe1980/alertmesh/summarize"
	"github.com/hupe1980/alertmesh/tool"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockInvestigator struct {
	mock.Mock
}

func (m *mockInvestigator) Handle(ctx context.Context, alert core.Alert) (*core.InvestigationReport, error) {
	args := m.Called(ctx, alert)

	report, _ := args.Get(0).(*core.InvestigationReport)

	return report, args.Error(1)
}

func (m *mockInvestigator) Tools() map[string]string {
	return m.Called().Get(0).(map[string]string)
}

func newTestServer(t *testing.T, optFns ...func(o *Options)) (*Server, *metrics.Metrics) {
	t.Helper()

	m := metrics.New()

	inv, err := agent.NewInvestigator(func(o *agent.InvestigatorOptions) { o.Metrics = m })
	require.NoError(t, err)

	opts := append([]func(o *Options){func(o *Options) { o.Metrics = m.Handler() }}, optFns...)

	return New(inv, opts...), m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0"}`, rec.Body.String())
}

func TestAlerts_HighMemory(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"high_memory","service":"web-app"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.InvestigationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, core.Alert{Type: "high_memory", Service: "web-app"}, report.Alert)
	require.Len(t, report.Plan, 2)
	assert.Equal(t, "list_pods", report.Plan[0].Step)
	assert.Equal(t, "check_logs", report.Plan[1].Step)
	require.Len(t, report.Investigation, 2)
	assert.Equal(t, "get_pod_logs", report.Investigation[1].Tool)
	assert.Equal(t, "web-app-pod", report.Investigation[1].Params["pod"])
	assert.Equal(t, map[string]any{"type": "high_memory", "service": "web-app"}, report.MemorySnapshot[core.LastAlertKey])
}

func TestAlerts_ResponseShape(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"disk_full","service":"db"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	assert.ElementsMatch(t, []string{"alert", "plan", "investigation", "memory_snapshot"}, keys(raw))

	steps := raw["investigation"].([]any)
	require.Len(t, steps, 1)

	execution := steps[0].(map[string]any)["execution"].(map[string]any)
	assert.Equal(t, true, execution["ok"])
	assert.NotContains(t, execution, "error")
}

func TestInvestigateAlias(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodPost, "/investigate", `{"type":"high_latency","service":"checkout"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.InvestigationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "check_service_metrics", report.Plan[0].Step)
}

func TestAlerts_Validation(t *testing.T) {
	s, _ := newTestServer(t)

	for _, body := range []string{`{"type":"high_cpu"}`, `{"service":"x"}`, `not json`, `{}`} {
		rec := do(t, s.Handler(), http.MethodPost, "/alerts", body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"error"`, body)
	}
}

func TestAlerts_EmptyValues(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"","service":"web-app"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report core.InvestigationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, core.Alert{Type: "", Service: "web-app"}, report.Alert)
	assert.Equal(t, []core.PlanStep{
		{Step: "list_pods", Tool: "get_pods", Params: map[string]string{"namespace": "default"}},
	}, report.Plan)

	rec = do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"high_memory","service":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report = core.InvestigationReport{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Investigation, 2)
	assert.Equal(t, "-pod", report.Investigation[1].Params["pod"])
	assert.True(t, report.Investigation[1].Execution.OK)
}

func TestAlerts_InvestigationError(t *testing.T) {
	inv := &mockInvestigator{}
	inv.On("Handle", mock.Anything, testutil.HighCPUAlert).
		Return(nil, fmt.Errorf("%w: get_service_metrics", tool.ErrUnknownTool))

	s := New(inv)

	rec := do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"high_cpu","service":"payment-api"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"unknown tool: get_service_metrics"}`, rec.Body.String())
	inv.AssertExpectations(t)
}

func TestTools(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "Simulate fetching pod logs", listing["get_pod_logs"])
	assert.Len(t, listing, 3)
}

func TestSummarize_Rule(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), http.MethodPost, "/summarize", `{"type":"high_cpu","service":"payment-api"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Report.Investigation, 2)
	assert.Equal(t, summarize.ProviderRule, resp.Summary.Provider)
	assert.Contains(t, resp.Summary.Text, "Root cause")
}

func TestSummarize_ModelError(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.SetError(errors.New("rate limited"))

	sum, err := summarize.NewModelSummarizer(llm)
	require.NoError(t, err)

	s, _ := newTestServer(t, func(o *Options) { o.Summarizer = sum })

	rec := do(t, s.Handler(), http.MethodPost, "/summarize", `{"type":"high_cpu","service":"payment-api"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limited")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"high_cpu","service":"payment-api"}`)
	do(t, s.Handler(), http.MethodPost, "/alerts", `{"type":"high_memory","service":"web-app"}`)

	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "agent_requests_total 2")
	assert.Contains(t, body, `agent_step_executions_total{ok="true",tool="get_pods"} 2`)
	assert.Contains(t, body, "agent_average_cost")
}

func TestMetricsDisabled(t *testing.T) {
	inv := &mockInvestigator{}
	s := New(inv)

	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dashboard.local")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	noCORS, _ := newTestServer(t, func(o *Options) { o.CORS = false })
	rec = httptest.NewRecorder()
	noCORS.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	s, _ := newTestServer(t, func(o *Options) { o.Logger = logger })

	do(t, s.Handler(), http.MethodGet, "/health", "")

	records := logger.Find("server.request")
	require.Len(t, records, 1)

	status, _ := records[0].Attr("status")
	assert.Equal(t, http.StatusOK, status)

	path, _ := records[0].Attr("path")
	assert.Equal(t, "/health", path)
}

func TestRun_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
