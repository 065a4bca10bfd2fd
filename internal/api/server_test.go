package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/dispatch"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

func testManifest() registry.ServerManifest {
	return registry.ServerManifest{
		Name:        "echo",
		Description: "Echo server used in API tests",
		Version:     "1.0.0",
		APIBaseURL:  "https://echo.example.com",
		Tools: []registry.ToolDefinition{
			{
				Name:        "say-hello",
				MCPName:     "echo_say-hello",
				APIEndpoint: "/hello",
				Description: "Returns a greeting for the given name",
				InputSchema: &registry.JSONSchema{Type: "object"},
				Tags:        []string{"greeting"},
			},
			{
				Name:        "fail-validation",
				MCPName:     "echo_fail-validation",
				APIEndpoint: "/fail",
				Description: "Always returns a validation failure",
				InputSchema: &registry.JSONSchema{Type: "object"},
			},
			{
				Name:        "get-widget",
				MCPName:     "echo_get-widget",
				APIEndpoint: "/widgets/{id}",
				Description: "Fetches a widget that never exists",
				InputSchema: &registry.JSONSchema{Type: "object"},
			},
		},
	}
}

func testModule() tool.Module {
	return tool.Module{
		Manifest: testManifest(),
		Handlers: map[string]tool.Func{
			"sayHello": func(ctx context.Context, input map[string]any) (*tool.Result, error) {
				name := tool.OptionalString(input, "name", "world")
				return tool.Success("echo", "say-hello", tool.ExecutionAPI,
					map[string]any{"greeting": "hello " + name}, 0), nil
			},
			"failValidation": func(ctx context.Context, input map[string]any) (*tool.Result, error) {
				return tool.Failure("echo", "fail-validation", tool.ExecutionAPI,
					tool.CodeValidationError, "name is required", nil, 0), nil
			},
			"getWidget": func(ctx context.Context, input map[string]any) (*tool.Result, error) {
				return tool.Failure("echo", "get-widget", tool.ExecutionAPI,
					tool.CodeNotFound, "widget not found upstream", nil, 0), nil
			},
		},
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	reg, _, err := registry.Build([]registry.ServerManifest{testManifest()})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, registry.Write(reg, path))

	disc := discovery.NewService(path, nil)
	disp := dispatch.NewDispatcher(disc, []tool.Module{testModule()}, nil)
	return NewServer(disc, disp, nil, nil, nil), path
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestListServers(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/servers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Servers []string `json:"servers"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"echo"}, resp.Servers)
	assert.Equal(t, 1, resp.Count)
}

func TestGetServer(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/servers/echo", "")
	require.Equal(t, http.StatusOK, w.Code)

	var m registry.ServerManifest
	require.NoError(t, json.NewDecoder(w.Body).Decode(&m))
	assert.Equal(t, "echo", m.Name)
	assert.Len(t, m.Tools, 3)
}

func TestGetServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/servers/github", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error            string   `json:"error"`
		AvailableServers []string `json:"availableServers"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "unknown server")
	assert.Equal(t, []string{"echo"}, resp.AvailableServers)
}

func TestGetTool_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/servers/echo/tools/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error          string   `json:"error"`
		AvailableTools []string `json:"availableTools"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"say-hello", "fail-validation", "get-widget"}, resp.AvailableTools)
}

func TestRunTool_Success(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/echo/tools/say-hello/run", `{"name":"ada"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result tool.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.True(t, result.Success)
	data := result.Data.(map[string]any)
	assert.Equal(t, "hello ada", data["greeting"])
}

func TestRunTool_EmptyBody(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/echo/tools/say-hello/run", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result tool.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.True(t, result.Success)
}

func TestRunTool_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/echo/tools/say-hello/run", "{broken")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunTool_ToolLevelFailureIs200(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/echo/tools/fail-validation/run", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result tool.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, tool.CodeValidationError, result.Error.Code)
}

func TestRunTool_NotFoundEnvelopeIs200(t *testing.T) {
	// An upstream record being absent is a tool-level outcome; only a
	// failure to resolve the route itself changes the HTTP status.
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/echo/tools/get-widget/run", `{"id":"w-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result tool.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, tool.CodeNotFound, result.Error.Code)
}

func TestRunTool_UnknownServerIs404(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "POST", "/mcp/servers/github/tools/say-hello/run", `{}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var result tool.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, tool.CodeNotFound, result.Error.Code)
}

func TestRunTool_RecordsHistoryAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, "POST", "/mcp/servers/echo/tools/say-hello/run", `{"name":"ada"}`)
	doRequest(t, s, "POST", "/mcp/servers/github/tools/nope/run", `{}`)

	entries := s.History().Entries()
	require.Len(t, entries, 2)
	// Most recent first: the failed invocation is on top.
	assert.Equal(t, "github", entries[0].Server)
	assert.False(t, entries[0].Result.Success)
	assert.Equal(t, "echo", entries[1].Server)
	assert.True(t, entries[1].Result.Success)

	w := doRequest(t, s, "GET", "/mcp/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `toolhub_executions_total{outcome="success",server="echo",tool="say-hello"} 1`)
	assert.Contains(t, body, `toolhub_executions_total{outcome="failure",server="github",tool="nope"} 1`)
}

func TestHistoryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, "POST", "/mcp/servers/echo/tools/say-hello/run", `{}`)

	w := doRequest(t, s, "GET", "/mcp/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History  []ExecutionRecord `json:"history"`
		Count    int               `json:"count"`
		Capacity int               `json:"capacity"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, HistoryCapacity, resp.Capacity)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "say-hello", resp.History[0].Tool)
}

func TestSearch(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/tools/search?q=greeting", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Query   string                `json:"query"`
		Results []discovery.SearchHit `json:"results"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "greeting", resp.Query)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "say-hello", resp.Results[0].Tool.Name)
}

func TestSearch_MissingQuery(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/tools/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_WhitespaceQuery(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/tools/search?q=%20%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats registry.Stats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 1, stats.TotalServers)
	assert.Equal(t, 3, stats.TotalTools)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "GET", "/mcp/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestReload_PicksUpRegistryChanges(t *testing.T) {
	s, path := newTestServer(t)

	// Warm the cache, then grow the registry on disk.
	doRequest(t, s, "GET", "/mcp/servers", "")

	second := testManifest()
	second.Name = "extra"
	for i := range second.Tools {
		second.Tools[i].MCPName = "extra_" + second.Tools[i].Name
	}
	reg, _, err := registry.Build([]registry.ServerManifest{testManifest(), second})
	require.NoError(t, err)
	require.NoError(t, registry.Write(reg, path))

	// Cached view still has one server.
	w := doRequest(t, s, "GET", "/mcp/servers", "")
	var before struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&before))
	assert.Equal(t, 1, before.Count)

	w = doRequest(t, s, "POST", "/mcp/reload", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, "GET", "/mcp/servers", "")
	var after struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&after))
	assert.Equal(t, 2, after.Count)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s, "OPTIONS", "/mcp/servers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
