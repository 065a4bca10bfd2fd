// Package dispatch resolves a (server, tool) pair to a registered handler
// and produces a uniform result envelope. Server modules are compiled in and
// injected at construction; there is no runtime string-to-code loading, so
// only identifiers already known to the registry ever reach a handler.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

// Resolution classifies how far dispatch got before producing a result.
// The HTTP layer keys status codes on this, never on the envelope's error
// code: a tool may legitimately return NOT_FOUND for an upstream resource
// and that is still a completed execution.
type Resolution int

const (
	// ResolutionExecuted means a handler was found and invoked; the
	// envelope, success or failure, belongs to the tool.
	ResolutionExecuted Resolution = iota
	// ResolutionUnknownTarget means the server or tool is not in the
	// registry.
	ResolutionUnknownTarget
	// ResolutionDrift means the registry names a server or function the
	// binary does not implement.
	ResolutionDrift
)

// Dispatcher routes tool invocations to their implementations.
type Dispatcher struct {
	discovery *discovery.Service
	modules   map[string]tool.Module
	logger    *zap.Logger
}

// NewDispatcher builds a dispatcher over the given discovery service and
// registration table.
func NewDispatcher(disc *discovery.Service, modules []tool.Module, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	table := make(map[string]tool.Module, len(modules))
	for _, m := range modules {
		table[m.Manifest.Name] = m
	}
	return &Dispatcher{
		discovery: disc,
		modules:   table,
		logger:    logger.Named("dispatch"),
	}
}

// Execute resolves and invokes a tool, always returning an envelope plus
// the resolution stage the envelope came from. The duration is measured
// from just before handler resolution to receipt of the result. A handler
// error or panic is converted to EXECUTION_ERROR; a handler's own failure
// envelope passes through unchanged with ResolutionExecuted.
func (d *Dispatcher) Execute(ctx context.Context, server, toolName string, input map[string]any) (*tool.Result, Resolution) {
	// Validate against the registry before any resolution happens.
	if d.discovery.ServerManifest(server) == nil {
		return tool.Failure(server, toolName, tool.ExecutionAPI, tool.CodeNotFound,
			fmt.Sprintf("unknown server: %s", server),
			map[string]any{"availableServers": d.discovery.ListServers()}, 0), ResolutionUnknownTarget
	}
	def := d.discovery.ToolDefinition(server, toolName)
	if def == nil {
		tools := d.discovery.ListTools(server)
		names := make([]string, 0, len(tools))
		for _, t := range tools {
			names = append(names, t.Name)
		}
		return tool.Failure(server, toolName, tool.ExecutionAPI, tool.CodeNotFound,
			fmt.Sprintf("unknown tool %s on server %s", toolName, server),
			map[string]any{"availableTools": names}, 0), ResolutionUnknownTarget
	}

	execType := tool.ExecutionAPI
	if def.CLICommand != "" {
		execType = tool.ExecutionCLI
	}

	start := time.Now()

	module, ok := d.modules[server]
	if !ok {
		// Registry lists a server the binary was built without.
		return tool.Failure(server, toolName, execType, tool.CodeFunctionNotFound,
			fmt.Sprintf("server %s has no compiled-in module", server),
			map[string]any{"registeredServers": d.registeredServers()}, time.Since(start)), ResolutionDrift
	}

	fnName := KebabToCamel(toolName)
	fn, ok := module.Handlers[fnName]
	if !ok || fn == nil {
		// Registry vs. implementation drift. Diagnostic aimed at developers.
		return tool.Failure(server, toolName, execType, tool.CodeFunctionNotFound,
			fmt.Sprintf("function %s not found in %s module", fnName, server),
			map[string]any{
				"expectedFunction": fnName,
				"availableExports": exportNames(module.Handlers),
			}, time.Since(start)), ResolutionDrift
	}

	d.logger.Debug("dispatching tool",
		zap.String("server", server),
		zap.String("tool", toolName),
		zap.String("function", fnName))

	result, err := d.invoke(ctx, fn, input)
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Warn("tool execution failed",
			zap.String("server", server),
			zap.String("tool", toolName),
			zap.Error(err))
		return tool.Failure(server, toolName, execType, tool.CodeExecutionError,
			err.Error(), nil, elapsed), ResolutionExecuted
	}
	if result == nil {
		return tool.Failure(server, toolName, execType, tool.CodeExecutionError,
			fmt.Sprintf("handler %s returned no result", fnName), nil, elapsed), ResolutionExecuted
	}
	return result, ResolutionExecuted
}

// invoke runs the handler with panic capture.
func (d *Dispatcher) invoke(ctx context.Context, fn tool.Func, input map[string]any) (result *tool.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	if input == nil {
		input = map[string]any{}
	}
	return fn(ctx, input)
}

func (d *Dispatcher) registeredServers() []string {
	names := make([]string, 0, len(d.modules))
	for name := range d.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func exportNames(handlers map[string]tool.Func) []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
