// Package summarize turns an investigation report into a short incident
// summary: root cause, findings and one or two remediation steps.
//
// Two strategies are provided. RuleSummarizer derives the summary
// deterministically from the report. ModelSummarizer plays the incident
// commander role, delegating the analysis to an investigator language model.
package summarize

import (
	"context"

	"github.com/hupe1980/alertmesh/core"
)

// Summary is the outcome of summarizing one report.
type Summary struct {
	Text     string  `json:"text"`
	Provider string  `json:"provider"`
	Model    string  `json:"model,omitempty"`
	Tokens   int     `json:"tokens"`
	CostUSD  float64 `json:"cost_usd"`
}

// Summarizer produces a Summary for a report.
type Summarizer interface {
	Summarize(ctx context.Context, report *core.InvestigationReport) (*Summary, error)
}
