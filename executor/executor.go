// Package executor runs a single tool invocation and folds every outcome,
// including panics, into a core.ExecutionResult. Callers never see a Go
// error from Run.
package executor

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/logging"
	"github.com/hupe1980/alertmesh/tool"
)

// Result prefixes.
const (
	ParameterErrorPrefix = "Parameter error: "
	ExecutionErrorPrefix = "Tool execution failed: "
)

// Observer receives the outcome of every tool invocation.
type Observer interface {
	ObserveStep(toolName string, ok bool, duration time.Duration)
}

// Options configures an Executor.
type Options struct {
	Logger   logging.Logger
	Observer Observer
}

// Executor invokes tools on behalf of the investigator. It holds no
// per-call state and is safe for concurrent use.
type Executor struct {
	logger   logging.Logger
	observer Observer
}

// New creates an Executor.
func New(optFns ...func(o *Options)) *Executor {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Executor{logger: opts.Logger, observer: opts.Observer}
}

// Run invokes t with params and reports the outcome:
//
//	success            -> {ok: true,  result: <string form of output>}
//	validation failure -> {ok: false, error: "Parameter error: ..."}
//	any other failure  -> {ok: false, error: "Tool execution failed: ..."}
//
// A panic inside the tool is recovered and reported as an execution failure.
func (e *Executor) Run(toolCtx *core.ToolContext, t tool.Tool, params map[string]string) (res core.ExecutionResult) {
	if t == nil {
		e.logger.Error("executor.tool.nil")
		return core.Failure(ExecutionErrorPrefix + "nil tool")
	}

	if toolCtx == nil {
		toolCtx = core.NewToolContext(nil, "", "", e.logger)
	}

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor.tool.panic", "tool", t.Name(), "recover", r, "stack", string(debug.Stack()))
			res = core.Failure(fmt.Sprintf("%spanic: %v", ExecutionErrorPrefix, r))
		}

		dur := time.Since(start)

		e.logger.Info(
			"executor.tool.executed",
			"tool", t.Name(),
			"run_id", toolCtx.RunID(),
			"step", toolCtx.Step(),
			"duration_ms", dur.Milliseconds(),
			"ok", res.OK,
		)

		if e.observer != nil {
			e.observer.ObserveStep(t.Name(), res.OK, dur)
		}
	}()

	if err := toolCtx.Context().Err(); err != nil {
		return core.Failure(ExecutionErrorPrefix + err.Error())
	}

	args := make(map[string]any, len(params))
	for k, v := range params {
		args[k] = v
	}

	out, err := t.Call(toolCtx, args)
	if err != nil {
		return failure(err)
	}

	return core.Success(stringify(out))
}

func failure(err error) core.ExecutionResult {
	if tool.IsValidationError(err) {
		var vErr *tool.ValidationError
		if errors.As(err, &vErr) {
			return core.Failure(ParameterErrorPrefix + vErr.Error())
		}

		return core.Failure(ParameterErrorPrefix + message(err))
	}

	return core.Failure(ExecutionErrorPrefix + message(err))
}

func message(err error) string {
	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Message
	}

	return err.Error()
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
