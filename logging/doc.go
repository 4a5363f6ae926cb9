// Package logging provides a minimal logging interface and adapters for alertmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the investigator, executor and HTTP server use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewLogger(&logging.Config{Level: logging.LogLevelInfo, Format: "json"})
//	inv, err := agent.NewInvestigator(func(o *agent.InvestigatorOptions) { o.Logger = logger })
//
// The design keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
