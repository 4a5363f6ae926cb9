// Package tool implements the tool subsystem that lets the investigator
// run named, parameterized operations (simulated infrastructure queries)
// with schema validated arguments and consistent error handling.
package tool

import (
	"errors"
	"fmt"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/internal/util"
)

// Tool defines a named operation the investigator can execute as a plan step.
//
// Tool implementations should:
//   - Provide clear, descriptive snake_case names
//   - Declare a JSON schema for their named parameters
//   - Return errors instead of panicking
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique registry key for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a JSON schema describing the accepted named parameters.
	Parameters() map[string]any

	// Call executes the tool with named arguments.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// Error codes attached to ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
	Details error  `json:"-"`       // Underlying cause
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}

	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *ToolError) Unwrap() error { return e.Details }

// NewToolError creates a new ToolError. cause may be nil.
func NewToolError(tool, message, code string, cause error) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
		Details: cause,
	}
}

// IsValidationError reports whether err is a parameter mismatch: either a
// ToolError with CodeValidation or a bare ValidationError.
func IsValidationError(err error) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Code == CodeValidation {
		return true
	}

	var vErr *ValidationError

	return errors.As(err, &vErr)
}
