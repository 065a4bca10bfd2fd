// Package registry provides the tool registry document model and validation.
package registry

import "time"

// SchemaVersion is stamped onto every registry document the builder writes.
// The loader logs a mismatch but never rejects one (forward compatibility).
const SchemaVersion = "1.0.0"

// Registry is the single persisted artifact enumerating all servers and
// their tools. It is written wholesale by the builder and read by the
// discovery service; there are no incremental updates.
//
// Servers is an ordered slice rather than a map so that server insertion
// order survives a write/read round trip.
type Registry struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Servers     []ServerManifest `json:"servers"`
}

// ByName returns the manifest for the named server, or nil.
func (r *Registry) ByName(name string) *ServerManifest {
	for i := range r.Servers {
		if r.Servers[i].Name == name {
			return &r.Servers[i]
		}
	}
	return nil
}

// ServerNames returns the server names in registry order.
func (r *Registry) ServerNames() []string {
	names := make([]string, 0, len(r.Servers))
	for _, s := range r.Servers {
		names = append(names, s.Name)
	}
	return names
}

// ServerManifest groups the tools backed by one external API or CLI.
type ServerManifest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Version       string           `json:"version"`
	CLIPrefix     string           `json:"cliPrefix,omitempty"`
	APIBaseURL    string           `json:"apiBaseUrl,omitempty"`
	Tools         []ToolDefinition `json:"tools"`
	Documentation string           `json:"documentation,omitempty"`
}

// Tool returns the named tool definition, or nil.
func (m *ServerManifest) Tool(name string) *ToolDefinition {
	for i := range m.Tools {
		if m.Tools[i].Name == name {
			return &m.Tools[i]
		}
	}
	return nil
}

// ToolNames returns the tool names in manifest order.
func (m *ServerManifest) ToolNames() []string {
	names := make([]string, 0, len(m.Tools))
	for _, t := range m.Tools {
		names = append(names, t.Name)
	}
	return names
}

// ToolDefinition is the declarative record for a single tool. Immutable once
// loaded; owned by its ServerManifest.
type ToolDefinition struct {
	Name        string        `json:"name"`
	MCPName     string        `json:"mcpName"`
	CLICommand  string        `json:"cliCommand,omitempty"`
	APIEndpoint string        `json:"apiEndpoint,omitempty"`
	Description string        `json:"description"`
	InputSchema *JSONSchema   `json:"inputSchema"`
	Tags        []string      `json:"tags,omitempty"`
	Examples    []ToolExample `json:"examples,omitempty"`
}

// ToolExample is a sample invocation shipped with a tool definition.
type ToolExample struct {
	Description    string         `json:"description"`
	Input          map[string]any `json:"input"`
	ExpectedOutput any            `json:"expectedOutput,omitempty"`
}

// JSONSchema represents a JSON Schema for tool input.
type JSONSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
	Items      *PropertySchema           `json:"items,omitempty"`
}

// PropertySchema defines a single property in a JSON Schema.
type PropertySchema struct {
	Type        string                    `json:"type,omitempty"`
	Description string                    `json:"description,omitempty"`
	Default     any                       `json:"default,omitempty"`
	Enum        []string                  `json:"enum,omitempty"`
	Minimum     *int                      `json:"minimum,omitempty"`
	Maximum     *int                      `json:"maximum,omitempty"`
	Items       *PropertySchema           `json:"items,omitempty"`
	Properties  map[string]PropertySchema `json:"properties,omitempty"`
}

// Stats is the aggregate shape served by /mcp/stats. An empty registry (or
// no registry at all) yields the zero value with a nil LastUpdated.
type Stats struct {
	TotalServers  int            `json:"totalServers"`
	TotalTools    int            `json:"totalTools"`
	ToolsByServer map[string]int `json:"toolsByServer"`
	LastUpdated   *time.Time     `json:"lastUpdated"`
}
