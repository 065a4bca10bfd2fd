// Package tool defines the uniform result envelope every tool invocation
// returns, and the contract a server module must satisfy to be dispatchable.
package tool

import (
	"context"
	"time"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
)

// ExecutionType records how a tool reaches its backing service.
type ExecutionType string

const (
	ExecutionAPI ExecutionType = "api"
	ExecutionCLI ExecutionType = "cli"
)

// Error codes used by the dispatch layer and by tool implementations.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeFunctionNotFound = "FUNCTION_NOT_FOUND"
	CodeExecutionError   = "EXECUTION_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeAPIError         = "API_ERROR"
	CodeMissingConfig    = "MISSING_CONFIG"
)

// Result is the uniform envelope returned by every tool invocation.
// Exactly one of Data/Error is meaningful, gated by Success.
type Result struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data,omitempty"`
	Error    *Error   `json:"error,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Error carries a machine-readable failure inside a Result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Metadata describes the invocation that produced a Result.
type Metadata struct {
	Tool            string        `json:"tool"`
	Server          string        `json:"server"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
	Timestamp       time.Time     `json:"timestamp"`
	ExecutionType   ExecutionType `json:"executionType"`
}

// Func is a single dispatchable tool implementation. A non-nil error (or a
// panic) is converted by the dispatcher into an EXECUTION_ERROR result; a
// tool-level failure is a Result with Success=false and is not an error.
type Func func(ctx context.Context, input map[string]any) (*Result, error)

// Module pairs a server manifest with its handler table. Handlers is keyed
// by the camelCase function name of each tool (list-tables -> listTables);
// the dispatcher resolves kebab-case tool names against it at call time.
type Module struct {
	Manifest registry.ServerManifest
	Handlers map[string]Func
}

// Success builds a successful envelope.
func Success(server, tool string, execType ExecutionType, data any, elapsed time.Duration) *Result {
	return &Result{
		Success:  true,
		Data:     data,
		Metadata: metadata(server, tool, execType, elapsed),
	}
}

// Failure builds a tool-level failure envelope.
func Failure(server, tool string, execType ExecutionType, code, message string, details any, elapsed time.Duration) *Result {
	return &Result{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: metadata(server, tool, execType, elapsed),
	}
}

func metadata(server, tool string, execType ExecutionType, elapsed time.Duration) Metadata {
	return Metadata{
		Tool:            tool,
		Server:          server,
		ExecutionTimeMs: elapsed.Milliseconds(),
		Timestamp:       time.Now().UTC(),
		ExecutionType:   execType,
	}
}

// StringArg extracts a required string field from a tool input map.
func StringArg(input map[string]any, key string) (string, bool) {
	v, ok := input[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// OptionalString extracts an optional string field, returning fallback when
// absent or empty.
func OptionalString(input map[string]any, key, fallback string) string {
	if s, ok := StringArg(input, key); ok {
		return s
	}
	return fallback
}

// OptionalInt extracts an optional integer field. JSON numbers decode as
// float64, so both forms are accepted.
func OptionalInt(input map[string]any, key string, fallback int) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
