package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/cost"
	"github.com/hupe1980/alertmesh/executor"
	"github.com/hupe1980/alertmesh/logging"
	"github.com/hupe1980/alertmesh/memory"
	"github.com/hupe1980/alertmesh/plan"
	"github.com/hupe1980/alertmesh/tool"
)

// Recorder receives request counts and per-investigation totals.
// *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveRequest()
	ObserveInvestigation(tokens int, usd float64, d time.Duration)
}

// InvestigatorOptions configures an Investigator.
//
// Use functional options with NewInvestigator to override defaults.
type InvestigatorOptions struct {
	Registry  *tool.Registry
	Builder   *plan.Builder
	Executor  *executor.Executor
	Memory    core.MemoryStore
	Logger    logging.Logger
	Metrics   Recorder
	TokenCost float64
}

// Investigator orchestrates alert investigations. It holds no per-request
// state; the memory store is the only state shared between requests.
type Investigator struct {
	registry  *tool.Registry
	builder   *plan.Builder
	executor  *executor.Executor
	memory    core.MemoryStore
	logger    logging.Logger
	metrics   Recorder
	tokenCost float64
}

// NewInvestigator creates an Investigator.
//
// Defaults:
//   - the simulated infrastructure tools (tool.NewInfraRegistry)
//   - the embedded plan table
//   - a process-local memory store
//   - an executor sharing the investigator's logger; when Metrics also
//     implements executor.Observer it receives per-step outcomes
//
// It fails when the plan table references a tool the registry lacks.
func NewInvestigator(optFns ...func(o *InvestigatorOptions)) (*Investigator, error) {
	opts := InvestigatorOptions{
		Logger:    logging.NoOpLogger{},
		TokenCost: cost.TokenCost,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Registry == nil {
		opts.Registry = tool.NewInfraRegistry()
	}

	if opts.Builder == nil {
		b, err := plan.NewBuilder()
		if err != nil {
			return nil, err
		}

		opts.Builder = b
	}

	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}

	if opts.Executor == nil {
		opts.Executor = executor.New(func(o *executor.Options) {
			o.Logger = opts.Logger

			if obs, ok := opts.Metrics.(executor.Observer); ok {
				o.Observer = obs
			}
		})
	}

	var missing []error

	for _, name := range opts.Builder.Tools() {
		if !opts.Registry.Has(name) {
			missing = append(missing, fmt.Errorf("%w: %s", tool.ErrUnknownTool, name))
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("plan table does not match registry: %w", errors.Join(missing...))
	}

	return &Investigator{
		registry:  opts.Registry,
		builder:   opts.Builder,
		executor:  opts.Executor,
		memory:    opts.Memory,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		tokenCost: opts.TokenCost,
	}, nil
}

// Handle runs a full investigation for alert.
//
// Logging Fields:
//
//	run_id: investigation id shared by every record of the run
//	category: resolved alert category
//	steps / failed: plan size and failed step count
//	tokens / usd: output size estimate and its cost
func (i *Investigator) Handle(ctx context.Context, alert core.Alert) (*core.InvestigationReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := logging.With(i.logger, "run_id", runID)

	if i.metrics != nil {
		i.metrics.ObserveRequest()
	}

	log.Info("investigation.start", "type", alert.Type, "service", alert.Service, "category", string(alert.Category()))

	if err := i.memory.Remember(ctx, core.LastAlertKey, alert); err != nil {
		log.Error("investigation.memory.error", "error", err.Error())
		return nil, fmt.Errorf("remember alert: %w", err)
	}

	steps := i.builder.Build(alert)
	tracker := cost.NewTracker(i.tokenCost)
	investigation := make([]core.InvestigationStep, 0, len(steps))

	for _, step := range steps {
		t, err := i.registry.Get(step.Tool)
		if err != nil {
			log.Error("investigation.tool.unknown", "step", step.Step, "tool", step.Tool)
			return nil, err
		}

		toolCtx := core.NewToolContext(ctx, runID, step.Step, i.logger)
		res := i.executor.Run(toolCtx, t, step.Params)
		tracker.AddText(res.Result)

		recorded := step.Clone()
		investigation = append(investigation, core.InvestigationStep{
			Step:      recorded.Step,
			Tool:      recorded.Tool,
			Params:    recorded.Params,
			Execution: res,
		})
	}

	snapshot, err := i.memory.Dump(ctx)
	if err != nil {
		log.Error("investigation.memory.error", "error", err.Error())
		return nil, fmt.Errorf("snapshot memory: %w", err)
	}

	report := &core.InvestigationReport{
		Alert:          alert,
		Plan:           steps,
		Investigation:  investigation,
		MemorySnapshot: snapshot,
	}

	summary := tracker.Summary()
	dur := time.Since(start)

	if i.metrics != nil {
		i.metrics.ObserveInvestigation(summary.Tokens, summary.USD, dur)
	}

	log.Info(
		"investigation.complete",
		"steps", len(steps),
		"failed", len(report.FailedSteps()),
		"tokens", summary.Tokens,
		"usd", summary.USD,
		"duration_ms", dur.Milliseconds(),
	)

	return report, nil
}

// Tools lists the registered tools as name to description.
func (i *Investigator) Tools() map[string]string { return i.registry.List() }
