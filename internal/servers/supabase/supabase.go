// Package supabase wraps a Supabase project's PostgREST and GoTrue admin
// endpoints as dispatchable tools. Credentials come from SUPABASE_URL and
// SUPABASE_SERVICE_ROLE_KEY.
package supabase

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

const serverName = "supabase"

var invoker = tool.NewInvoker()

// Module returns the supabase server module: manifest plus handler table.
func Module() tool.Module {
	return tool.Module{
		Manifest: Manifest(),
		Handlers: map[string]tool.Func{
			"listTables": listTables,
			"queryTable": queryTable,
			"listUsers":  listUsers,
		},
	}
}

// Manifest describes the supabase tools for the registry builder.
func Manifest() registry.ServerManifest {
	return registry.ServerManifest{
		Name:        serverName,
		Description: "Supabase database and auth administration tools",
		Version:     "1.2.0",
		APIBaseURL:  "https://<project>.supabase.co",
		Tools: []registry.ToolDefinition{
			{
				Name:        "list-tables",
				MCPName:     "supabase_list-tables",
				APIEndpoint: "/rest/v1/",
				Description: "List all tables exposed by the project's PostgREST schema",
				InputSchema: &registry.JSONSchema{Type: "object"},
				Tags:        []string{"database", "schema"},
			},
			{
				Name:        "query-table",
				MCPName:     "supabase_query-table",
				APIEndpoint: "/rest/v1/{table}",
				Description: "Query a table with filters, column selection and a row limit",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"table":  {Type: "string", Description: "Table name to query"},
						"select": {Type: "string", Description: "Comma-separated column list", Default: "*"},
						"filter": {Type: "string", Description: "PostgREST filter expression, e.g. status=eq.active"},
						"limit":  {Type: "integer", Description: "Maximum rows to return", Default: 50},
					},
					Required: []string{"table"},
				},
				Tags: []string{"database", "query"},
				Examples: []registry.ToolExample{
					{
						Description: "Fetch the first 10 active projects",
						Input:       map[string]any{"table": "projects", "filter": "status=eq.active", "limit": 10},
					},
				},
			},
			{
				Name:        "list-users",
				MCPName:     "supabase_list-users",
				APIEndpoint: "/auth/v1/admin/users",
				Description: "List auth users through the GoTrue admin endpoint",
				InputSchema: &registry.JSONSchema{
					Type: "object",
					Properties: map[string]registry.PropertySchema{
						"page":    {Type: "integer", Description: "Page number", Default: 1},
						"perPage": {Type: "integer", Description: "Users per page", Default: 50},
					},
				},
				Tags: []string{"auth", "users"},
			},
		},
	}
}

type config struct {
	baseURL string
	key     string
}

func loadConfig() (*config, error) {
	base := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if base == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY must be set")
	}
	return &config{baseURL: strings.TrimRight(base, "/"), key: key}, nil
}

func (c *config) headers() map[string]string {
	return map[string]string{
		"apikey":        c.key,
		"Authorization": "Bearer " + c.key,
	}
}

func listTables(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()
	cfg, err := loadConfig()
	if err != nil {
		return tool.Failure(serverName, "list-tables", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	// PostgREST's root document is an OpenAPI spec whose paths are the
	// exposed tables.
	resp, err := invoker.CallJSON(ctx, "GET", cfg.baseURL+"/rest/v1/", cfg.headers(), nil)
	if err != nil {
		return tool.Failure(serverName, "list-tables", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-tables", resp, start), nil
	}

	tables := []string{}
	if doc, ok := resp.Body.(map[string]any); ok {
		if paths, ok := doc["paths"].(map[string]any); ok {
			for p := range paths {
				if name := strings.Trim(p, "/"); name != "" && !strings.Contains(name, "rpc") {
					tables = append(tables, name)
				}
			}
		}
	}
	return tool.Success(serverName, "list-tables", tool.ExecutionAPI,
		map[string]any{"tables": tables, "count": len(tables)}, time.Since(start)), nil
}

func queryTable(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()

	table, ok := tool.StringArg(input, "table")
	if !ok {
		return tool.Failure(serverName, "query-table", tool.ExecutionAPI,
			tool.CodeValidationError, "table is required and must be a string", nil, time.Since(start)), nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return tool.Failure(serverName, "query-table", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	params := url.Values{}
	params.Set("select", tool.OptionalString(input, "select", "*"))
	params.Set("limit", fmt.Sprintf("%d", tool.OptionalInt(input, "limit", 50)))
	query := params.Encode()
	if filter := tool.OptionalString(input, "filter", ""); filter != "" {
		query += "&" + filter
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", cfg.baseURL, url.PathEscape(table), query)
	resp, err := invoker.CallJSON(ctx, "GET", endpoint, cfg.headers(), nil)
	if err != nil {
		return tool.Failure(serverName, "query-table", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("query-table", resp, start), nil
	}

	rows, _ := resp.Body.([]any)
	return tool.Success(serverName, "query-table", tool.ExecutionAPI,
		map[string]any{"rows": resp.Body, "count": len(rows)}, time.Since(start)), nil
}

func listUsers(ctx context.Context, input map[string]any) (*tool.Result, error) {
	start := time.Now()
	cfg, err := loadConfig()
	if err != nil {
		return tool.Failure(serverName, "list-users", tool.ExecutionAPI,
			tool.CodeMissingConfig, err.Error(), nil, time.Since(start)), nil
	}

	endpoint := fmt.Sprintf("%s/auth/v1/admin/users?page=%d&per_page=%d",
		cfg.baseURL,
		tool.OptionalInt(input, "page", 1),
		tool.OptionalInt(input, "perPage", 50))

	resp, err := invoker.CallJSON(ctx, "GET", endpoint, cfg.headers(), nil)
	if err != nil {
		return tool.Failure(serverName, "list-users", tool.ExecutionAPI,
			tool.CodeAPIError, err.Error(), nil, time.Since(start)), nil
	}
	if resp.StatusCode >= 300 {
		return apiFailure("list-users", resp, start), nil
	}
	return tool.Success(serverName, "list-users", tool.ExecutionAPI, resp.Body, time.Since(start)), nil
}

func apiFailure(toolName string, resp *tool.APIResponse, start time.Time) *tool.Result {
	return tool.Failure(serverName, toolName, tool.ExecutionAPI, tool.CodeAPIError,
		fmt.Sprintf("supabase returned status %d", resp.StatusCode),
		resp.Body, time.Since(start))
}
