package testutil

import "github.com/hupe1980/alertmesh/core"

// Sample alerts used across tests and examples.
var (
	HighCPUAlert     = core.Alert{Type: "high_cpu", Service: "payment-api"}
	HighMemoryAlert  = core.Alert{Type: "high_memory", Service: "web-app"}
	HighLatencyAlert = core.Alert{Type: "high_latency", Service: "checkout"}
	GenericAlert     = core.Alert{Type: "unknown", Service: "some-service"}
)

// SampleAlerts returns every sample alert keyed by a short label.
func SampleAlerts() map[string]core.Alert {
	return map[string]core.Alert{
		"HIGH_CPU":     HighCPUAlert,
		"HIGH_MEMORY":  HighMemoryAlert,
		"HIGH_LATENCY": HighLatencyAlert,
		"GENERIC":      GenericAlert,
	}
}
