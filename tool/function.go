package tool

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a Tool.
//
// Call validates arguments against the declared schema, fills in schema
// defaults for omitted optional parameters and normalizes errors:
//
//	VALIDATION_ERROR  -> schema / argument mismatch
//	EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	echo := NewFunctionTool(
//	  "echo",
//	  "Echo the message back",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{"msg": map[string]any{"type": "string"}},
//	    "required": []string{"msg"},
//	  },
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    return args["msg"], nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(toolCtx *core.ToolContext, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewTypedTool derives the parameter schema from the struct type T and
// decodes validated arguments into a T before calling fn.
//
// Example:
//
//	type PodsArgs struct {
//	  Namespace string `json:"namespace" description:"Kubernetes namespace"`
//	}
//
//	pods := NewTypedTool("get_pods", "List pods", func(tc *core.ToolContext, a PodsArgs) (string, error) {
//	  return "pods in " + a.Namespace, nil
//	})
func NewTypedTool[T any](
	name, description string,
	fn func(toolCtx *core.ToolContext, args T) (string, error),
) *FunctionTool {
	var zero T

	return NewFunctionTool(name, description, util.CreateSchema(zero), func(tc *core.ToolContext, args map[string]any) (any, error) {
		var typed T

		raw, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(raw, &typed); err != nil {
			return nil, NewToolError(name, err.Error(), CodeValidation, err)
		}

		return fn(tc, typed)
	})
}

// Name returns the unique tool name.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates the provided args against the declared schema then invokes the
// underlying function. Validation or execution failures are wrapped (or passed
// through) as *ToolError.
//
// Logging Fields:
//
//	tool: tool name
//	duration_ms: execution time in milliseconds
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	start := time.Now()

	toolCtx.LogDebug("tool.call.start", "tool", t.name)

	if err := util.ValidateParameters(args, t.parameters); err != nil {
		toolCtx.LogWarn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return nil, NewToolError(t.name, fmt.Sprintf("parameter validation failed: %v", err), CodeValidation, err)
	}

	result, err := t.fn(toolCtx, util.ApplyDefaults(args, t.parameters))
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			toolCtx.LogError("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return nil, toolErr
		}

		toolCtx.LogError("tool.call.error", "tool", t.name, "error", err.Error())

		return nil, NewToolError(t.name, err.Error(), CodeExecution, err)
	}

	toolCtx.LogDebug("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
