// Package shadcn wraps the shadcn/ui component registry: read access over
// its public JSON index, and component installation through the shadcn CLI.
package shadcn

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

const (
	serverName     = "shadcn"
	defaultBaseURL = "https://ui.shadcn.com/r"
	defaultStyle   = "new-york"
)

var invoker = tool.NewInvoker()

// Module returns the shadcn server module.
func Module() tool.Module {
	return tool.Module{
		Manifest: Manifest(),
		Handlers: map[string]tool.Func{
			"listComponents": listComponents,
			"getComponent":   getComponent,
			"addComponent":   addComponent,
		},
	}
}

// Manifest describes the shadcn tools for the registry builder.
func Manifest() registry.ServerManifest {
	return registry.ServerManifest{
		Name:        serverName,
		Description: "shadcn/ui component registry browsing and installation tools",
		Version:     "1.0.0",
		APIBaseURL:  defaultBaseURL,
		CLIPrefix:   "npx shadcn@latest",
		Tools: []registry.ToolDefinition{
			{
				Name:        "list-components",
				MCPName:     "shadcn_list-components",
				APIEndpoint: "/index.json",
				Description: "List all components available in the shadcn/ui registry",
				InputSchema: &registry.JSONSchema{Type: "object"},
				Tags:        []string{"ui", "components", "registry"},
			},
			{
				Name:        "get-component",
				MCPName:     "shadcn_get-component",
				APIEndpoint: "/styles/{style}/{name}.json",
				Description: "Fetch one component's definition including its source files",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"name":  {Type: "string", Description: "Component name, e.g. button"},
						"style": {Type: "string", Description: "Registry style", Default: defaultStyle, Enum: []string{"default", "new-york"}},
					},
					Required: []string{"name"},
				},
				Tags: []string{"ui", "components"},
				Examples: []registry.ToolExample{
					{
						Description: "Fetch the button component",
						Input:       map[string]any{"name": "button"},
					},
				},
			},
			{
				Name:        "add-component",
				MCPName:     "shadcn_add-component",
				CLICommand:  "npx shadcn@latest add",
				Description: "Install a component into the local project via the shadcn CLI",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"name": {Type: "string", Description: "Component name to install"},
					},
					Required: []string{"name"},
				},
				Tags: []string{"ui", "components", "cli"},
			},
		},
	}
}

func baseURL() string {
	if v := os.Getenv("SHADCN_REGISTRY_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultBaseURL
}

func listComponents(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	resp, err := invoker.CallJSON(ctx, "GET", baseURL()+"/index.json", nil, nil)
	if err != nil {
		return tool.Failure(serverName, "list-components", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-components", resp, start), nil
	}

	names := []string{}
	if items, ok := resp.Body.([]any); ok {
		for _, item := range items {
			if entry, ok := item.(map[string]any); ok {
				if name, ok := entry["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
	}
	return tool.Success(serverName, "list-components", tool.ExecutionAPI,
		map[string]any{"components": names, "count": len(names)}, time.Since(start)), nil
}

func getComponent(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	name, ok := tool.StringArg(input, "name")
	if !ok {
		return tool.Failure(serverName, "get-component", tool.ExecutionAPI,
			tool.CodeValidationError, "name is required and must be a string", nil, time.Since(start)), nil
	}
	style := tool.OptionalString(input, "style", defaultStyle)

	endpoint := fmt.Sprintf("%s/styles/%s/%s.json", baseURL(), style, name)
	resp, err := invoker.CallJSON(ctx, "GET", endpoint, nil, nil)
	if err != nil {
		return tool.Failure(serverName, "get-component", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode == 404 {
		return tool.Failure(serverName, "get-component", tool.ExecutionAPI,
			tool.CodeNotFound, fmt.Sprintf("component %q not found in style %q", name, style),
			nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("get-component", resp, start), nil
	}
	return tool.Success(serverName, "get-component", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func addComponent(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	name, ok := tool.StringArg(input, "name")
	if !ok {
		return tool.Failure(serverName, "add-component", tool.ExecutionCLI,
			tool.CodeValidationError, "name is required and must be a string", nil, time.Since(start)), nil
	}

	res, err := tool.RunCLI(ctx, "npx", "shadcn@latest", "add", name, "--yes")
	if err != nil {
		return tool.Failure(serverName, "add-component", tool.ExecutionCLI,
			tool.CodeExecutionError, err.Error(), nil, time.Since(start)), nil
	}
	if res.ExitCode != 0 {
		return tool.Failure(serverName, "add-component", tool.ExecutionCLI,
			tool.CodeExecutionError, fmt.Sprintf("shadcn CLI exited with status %d", res.ExitCode),
			res, time.Since(start)), nil
	}
	return tool.Success(serverName, "add-component", tool.ExecutionCLI, res, time.Since(start)), nil
}

func apiFailure(toolName string, resp *tool.APIResponse, start time.Time) *tool.Result {
	return tool.Failure(serverName, toolName, tool.ExecutionAPI, tool.CodeAPIError,
		fmt.Sprintf("shadcn registry returned status %d", resp.StatusCode),
		resp.Body, time.Since(start))
}
