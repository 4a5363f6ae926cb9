package core

import (
	"context"

	"github.com/hupe1980/alertmesh/logging"
)

// ToolContext provides a constrained surface for tool implementations
// invoked during an investigation: cancellation, identifiers for log
// correlation and a logger. Tools never see the memory store or registry.
type ToolContext struct {
	ctx    context.Context
	runID  string
	step   string
	logger logging.Logger
}

// NewToolContext constructs a tool context bound to an investigation run
// and plan step label.
func NewToolContext(ctx context.Context, runID, step string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}

	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &ToolContext{
		ctx:    ctx,
		runID:  runID,
		step:   step,
		logger: logging.With(logger, "run_id", runID, "step", step),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// RunID returns the investigation run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runID }

// Step returns the plan step label that triggered the tool invocation.
func (tc *ToolContext) Step() string { return tc.step }

// Logger returns the logger associated with the tool invocation. Records
// carry the run_id and step attributes.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// LogDebug logs a debug message.
func (tc *ToolContext) LogDebug(msg string, args ...any) { tc.logger.Debug(msg, args...) }

// LogInfo logs an info message.
func (tc *ToolContext) LogInfo(msg string, args ...any) { tc.logger.Info(msg, args...) }

// LogWarn logs a warning message.
func (tc *ToolContext) LogWarn(msg string, args ...any) { tc.logger.Warn(msg, args...) }

// LogError logs an error message.
func (tc *ToolContext) LogError(msg string, args ...any) { tc.logger.Error(msg, args...) }
