package core

import "maps"

// PlanStep describes one investigation step: a human readable label, the
// registry key of the tool to run and its named parameters.
type PlanStep struct {
	Step   string            `json:"step"`
	Tool   string            `json:"tool"`
	Params map[string]string `json:"params"`
}

// Clone returns a deep copy of the step.
func (p PlanStep) Clone() PlanStep {
	return PlanStep{Step: p.Step, Tool: p.Tool, Params: maps.Clone(p.Params)}
}

// ExecutionResult is the uniform envelope returned for every tool
// invocation. Exactly one of Result or Error is populated.
type ExecutionResult struct {
	OK     bool   `json:"ok"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success builds a successful ExecutionResult.
func Success(result string) ExecutionResult {
	return ExecutionResult{OK: true, Result: result}
}

// Failure builds a failed ExecutionResult.
func Failure(msg string) ExecutionResult {
	return ExecutionResult{OK: false, Error: msg}
}

// InvestigationStep records the execution of one PlanStep.
type InvestigationStep struct {
	Step      string            `json:"step"`
	Tool      string            `json:"tool"`
	Params    map[string]string `json:"params"`
	Execution ExecutionResult   `json:"execution"`
}

// InvestigationReport is the assembled output of one investigation.
//
// Investigation corresponds 1:1 and in order to Plan. MemorySnapshot is
// taken after the current alert has been recorded.
type InvestigationReport struct {
	Alert          Alert               `json:"alert"`
	Plan           []PlanStep          `json:"plan"`
	Investigation  []InvestigationStep `json:"investigation"`
	MemorySnapshot map[string]any      `json:"memory_snapshot"`
}

// FailedSteps returns the investigation entries whose execution failed.
func (r *InvestigationReport) FailedSteps() []InvestigationStep {
	var failed []InvestigationStep

	for _, s := range r.Investigation {
		if !s.Execution.OK {
			failed = append(failed, s)
		}
	}

	return failed
}
