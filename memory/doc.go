// Package memory contains concrete MemoryStore implementations. The store
// interface resides in the core package; depend on core.MemoryStore in your
// code and select an implementation (in-process or Redis) at wiring time.
package memory
