// Package testutil contains fixtures and helpers shared by tests: sample
// alerts, a recording logger and small tool builders. It is not intended
// for production usage.
package testutil
