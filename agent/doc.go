// Package agent contains the alert investigator: the orchestrator that turns
// an incoming alert into an investigation report.
//
// An investigation runs in four phases:
//
//  1. Record the alert in working memory under core.LastAlertKey
//  2. Build the plan for the alert's category (plan.Builder)
//  3. Execute every step in order through the executor; a failed step is
//     recorded and never aborts the remaining steps
//  4. Snapshot working memory and assemble the core.InvestigationReport
//
// The only fault that escapes Handle, apart from memory backend errors, is a
// plan step that names a tool missing from the registry (tool.ErrUnknownTool).
// NewInvestigator rejects that mismatch up front.
package agent
