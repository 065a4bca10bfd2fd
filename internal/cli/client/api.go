package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mcp-toolhub/toolhub/internal/api"
	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

// HubClient talks to a running toolhub server over its HTTP control API.
type HubClient struct {
	baseURL string
	client  *http.Client
}

func NewHubClient(baseURL string, timeout time.Duration) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type serverList struct {
	Servers []string `json:"servers"`
	Count   int      `json:"count"`
}

func (c *HubClient) ListServers() ([]string, error) {
	var list serverList
	err := c.get("/mcp/servers", &list)
	return list.Servers, err
}

func (c *HubClient) GetServer(name string) (*registry.ServerManifest, error) {
	var m registry.ServerManifest
	err := c.get(fmt.Sprintf("/mcp/servers/%s", url.PathEscape(name)), &m)
	return &m, err
}

type toolList struct {
	Server string                    `json:"server"`
	Tools  []registry.ToolDefinition `json:"tools"`
	Count  int                       `json:"count"`
}

func (c *HubClient) ListTools(server string) ([]registry.ToolDefinition, error) {
	var list toolList
	err := c.get(fmt.Sprintf("/mcp/servers/%s/tools", url.PathEscape(server)), &list)
	return list.Tools, err
}

func (c *HubClient) GetTool(server, name string) (*registry.ToolDefinition, error) {
	var def registry.ToolDefinition
	err := c.get(fmt.Sprintf("/mcp/servers/%s/tools/%s",
		url.PathEscape(server), url.PathEscape(name)), &def)
	return &def, err
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []discovery.SearchHit `json:"results"`
	Count   int                   `json:"count"`
}

func (c *HubClient) Search(query, server string, tags []string) ([]discovery.SearchHit, error) {
	params := url.Values{"q": {query}}
	if server != "" {
		params.Set("server", server)
	}
	for _, tag := range tags {
		params.Add("tag", tag)
	}
	var resp searchResponse
	err := c.get("/mcp/tools/search?"+params.Encode(), &resp)
	return resp.Results, err
}

// CallTool runs a tool through the server. A tool-level failure arrives as a
// Result with Success=false, not as a transport error.
func (c *HubClient) CallTool(server, name string, input map[string]any) (*tool.Result, error) {
	var result tool.Result
	path := fmt.Sprintf("/mcp/servers/%s/tools/%s/run",
		url.PathEscape(server), url.PathEscape(name))
	err := c.post(path, input, &result)
	return &result, err
}

func (c *HubClient) Stats() (*registry.Stats, error) {
	var stats registry.Stats
	err := c.get("/mcp/stats", &stats)
	return &stats, err
}

type historyResponse struct {
	History  []api.ExecutionRecord `json:"history"`
	Count    int                   `json:"count"`
	Capacity int                   `json:"capacity"`
}

func (c *HubClient) History() ([]api.ExecutionRecord, error) {
	var resp historyResponse
	err := c.get("/mcp/history", &resp)
	return resp.History, err
}

type Health struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (c *HubClient) GetHealth() (*Health, error) {
	var h Health
	err := c.get("/mcp/health", &h)
	return &h, err
}

func (c *HubClient) Reload() (*registry.Stats, error) {
	var resp struct {
		Status string         `json:"status"`
		Stats  registry.Stats `json:"stats"`
	}
	if err := c.post("/mcp/reload", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

type apiError struct {
	Error string `json:"error"`
}

func (c *HubClient) get(path string, v any) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *HubClient) post(path string, body any, v any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest("POST", c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Run responses carry tool envelopes even on 404/500, so decode those
	// instead of surfacing a bare status error.
	if resp.StatusCode != http.StatusOK && v != nil {
		var probe json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&probe); err != nil {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if err := json.Unmarshal(probe, v); err == nil {
			return nil
		}
		var apiErr apiError
		if json.Unmarshal(probe, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%s", apiErr.Error)
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}
