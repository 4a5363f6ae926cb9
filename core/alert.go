package core

// Alert is the input event of an investigation: a symptom type plus the
// affected service. It is treated as immutable once received.
type Alert struct {
	Type    string `json:"type" yaml:"type"`
	Service string `json:"service" yaml:"service"`
}

// Category is the enumerated form of Alert.Type used for plan dispatch.
type Category string

const (
	// CategoryHighCPU covers CPU saturation alerts.
	CategoryHighCPU Category = "high_cpu"
	// CategoryHighMemory covers memory pressure alerts.
	CategoryHighMemory Category = "high_memory"
	// CategoryHighLatency covers request latency alerts.
	CategoryHighLatency Category = "high_latency"
	// CategoryUnknown is the fallback for any unrecognized alert type.
	CategoryUnknown Category = "unknown"
)

// AllCategories returns every Category value. Plan tables are checked against
// this list for exhaustiveness.
func AllCategories() []Category {
	return []Category{CategoryHighCPU, CategoryHighMemory, CategoryHighLatency, CategoryUnknown}
}

// ParseCategory maps an alert type to its Category by exact match. Any
// other value, including different casing, yields CategoryUnknown.
func ParseCategory(alertType string) Category {
	switch c := Category(alertType); c {
	case CategoryHighCPU, CategoryHighMemory, CategoryHighLatency:
		return c
	default:
		return CategoryUnknown
	}
}

// Category returns the alert's enumerated category.
func (a Alert) Category() Category { return ParseCategory(a.Type) }
