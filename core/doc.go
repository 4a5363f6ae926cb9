// Package core provides the foundational domain types and contracts used by
// alertmesh. It defines:
//
//   - Alerts and their enumerated Category
//   - PlanStep, the unit of an investigation plan
//   - ExecutionResult, the success/failure envelope of a tool invocation
//   - InvestigationReport, the assembled output of one investigation
//   - MemoryStore, the working memory contract
//   - ToolContext, the scoped execution context handed to tools
//
// Implementation concerns (registries, plan tables, storage backends) live in
// their own packages and depend on these contracts, never the reverse.
package core
