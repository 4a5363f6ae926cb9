package tool

import (
	"fmt"

	"github.com/hupe1980/alertmesh/core"
)

// Names of the simulated infrastructure tools.
const (
	GetPods           = "get_pods"
	GetPodLogs        = "get_pod_logs"
	GetServiceMetrics = "get_service_metrics"
)

// PodsArgs are the parameters of get_pods.
type PodsArgs struct {
	Namespace string `json:"namespace" description:"Kubernetes namespace to list"`
}

// PodLogsArgs are the parameters of get_pod_logs.
type PodLogsArgs struct {
	Pod       string `json:"pod" description:"Pod name"`
	Namespace string `json:"namespace,omitempty" description:"Kubernetes namespace" default:"default"`
}

// ServiceMetricsArgs are the parameters of get_service_metrics.
type ServiceMetricsArgs struct {
	Service string `json:"service" description:"Service name"`
}

// NewPodsTool simulates listing pods in a namespace.
func NewPodsTool() *FunctionTool {
	return NewTypedTool(GetPods, "Simulate listing pods in a namespace", func(_ *core.ToolContext, a PodsArgs) (string, error) {
		return fmt.Sprintf("[FAKE] Pods in namespace '%s': web-abc, web-def, api-xyz", a.Namespace), nil
	})
}

// NewPodLogsTool simulates fetching the tail of a pod's logs.
func NewPodLogsTool() *FunctionTool {
	return NewTypedTool(GetPodLogs, "Simulate fetching pod logs", func(_ *core.ToolContext, a PodLogsArgs) (string, error) {
		return fmt.Sprintf("[FAKE] Last 3 log lines for pod '%s' in ns '%s'", a.Pod, a.Namespace), nil
	})
}

// NewServiceMetricsTool simulates querying service performance metrics.
func NewServiceMetricsTool() *FunctionTool {
	return NewTypedTool(GetServiceMetrics, "Simulate service performance metrics", func(_ *core.ToolContext, a ServiceMetricsArgs) (string, error) {
		return fmt.Sprintf("[FAKE] Metrics for service '%s': latency_p95=180ms, error_rate=0.2%%", a.Service), nil
	})
}

// NewInfraRegistry returns a registry holding the simulated infrastructure
// tools. The tools never touch a real cluster.
func NewInfraRegistry() *Registry {
	r, err := NewRegistry(NewPodsTool(), NewPodLogsTool(), NewServiceMetricsTool())
	if err != nil {
		// names are constants, a duplicate is a programming error
		panic(err)
	}

	return r
}
