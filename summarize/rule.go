package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/cost"
)

// ProviderRule identifies summaries produced by RuleSummarizer.
const ProviderRule = "rule"

type playbook struct {
	rootCause   string
	remediation []string
}

var playbooks = map[core.Category]playbook{
	core.CategoryHighCPU: {
		rootCause:   "CPU saturation on %s, likely a traffic spike",
		remediation: []string{"Scale out %s replicas and enable horizontal pod autoscaling", "Profile hot code paths in %s"},
	},
	core.CategoryHighMemory: {
		rootCause:   "Memory pressure on %s, possibly a leak",
		remediation: []string{"Restart the affected %s pod to reclaim memory", "Review memory limits and heap usage of %s"},
	},
	core.CategoryHighLatency: {
		rootCause:   "Elevated request latency on %s",
		remediation: []string{"Check downstream dependencies of %s", "Scale %s if latency tracks load"},
	},
	core.CategoryUnknown: {
		rootCause:   "Undetermined for %s, alert type is not recognized",
		remediation: []string{"Triage %s manually using the pod listing"},
	},
}

// RuleSummarizer builds summaries from a static per-category playbook. It
// never calls a model and always succeeds for a non-nil report.
type RuleSummarizer struct {
	tokenCost float64
}

// NewRuleSummarizer creates a RuleSummarizer.
func NewRuleSummarizer() *RuleSummarizer {
	return &RuleSummarizer{tokenCost: cost.TokenCost}
}

// Summarize implements Summarizer.
func (s *RuleSummarizer) Summarize(_ context.Context, report *core.InvestigationReport) (*Summary, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}

	service := report.Alert.Service
	if service == "" {
		service = "unknown"
	}

	pb := playbooks[report.Alert.Category()]

	var b strings.Builder

	fmt.Fprintf(&b, "Root cause: "+pb.rootCause+"\n", service)
	b.WriteString("Summary of findings:\n")

	for _, step := range report.Investigation {
		if step.Execution.OK {
			fmt.Fprintf(&b, "- %s (%s): %s\n", step.Step, step.Tool, step.Execution.Result)
		} else {
			fmt.Fprintf(&b, "- %s (%s): FAILED %s\n", step.Step, step.Tool, step.Execution.Error)
		}
	}

	if failed := len(report.FailedSteps()); failed > 0 {
		fmt.Fprintf(&b, "Note: %d of %d steps failed, findings are incomplete.\n", failed, len(report.Investigation))
	}

	b.WriteString("Remediation:\n")

	for i, r := range pb.remediation {
		fmt.Fprintf(&b, "%d. "+r+"\n", i+1, service)
	}

	text := b.String()
	tracker := cost.NewTracker(s.tokenCost)
	tracker.AddText(text)
	sum := tracker.Summary()

	return &Summary{
		Text:     text,
		Provider: ProviderRule,
		Tokens:   sum.Tokens,
		CostUSD:  sum.USD,
	}, nil
}
