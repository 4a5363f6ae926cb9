package testutil

import (
	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/tool"
)

// NewPanicTool returns a tool that panics with msg when called.
func NewPanicTool(name, msg string) tool.Tool {
	return tool.NewFunctionTool(name, "panics", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			panic(msg)
		})
}

// NewEchoTool returns a tool with one required string parameter "x" that
// echoes it back.
func NewEchoTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "echoes x", map[string]any{
		"type":       "object",
		"properties": map[string]any{"x": map[string]any{"type": "string"}},
		"required":   []string{"x"},
	}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["x"], nil
	})
}
