package core

import "context"

// LastAlertKey is the memory key under which the investigator records the
// most recent alert.
const LastAlertKey = "last_alert"

// MemoryStore is the working memory of the investigator: a flat key/value
// map with last-write-wins semantics, no expiry and no capacity bound.
// Implementations are selected at wiring time (in-process, Redis, ...).
type MemoryStore interface {
	// Remember stores value under key, overwriting any previous value.
	Remember(ctx context.Context, key string, value any) error
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (any, bool, error)
	// Dump returns a copy of the whole store.
	Dump(ctx context.Context) (map[string]any, error)
}
