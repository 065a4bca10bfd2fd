package registry

import (
	"fmt"
	"regexp"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds the result of validating a registry document.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

func (r *ValidationResult) addError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{field, message})
}

func (r *ValidationResult) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{field, message})
}

// Regular expressions for validation
var (
	serverNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	toolNamePattern   = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	versionPattern    = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	mcpNamePattern    = regexp.MustCompile(`^[a-z][a-z0-9-]*(_[a-z][a-z0-9-]*)+$`)
)

// Validate checks a complete registry document. Server names must be unique
// keys, tool names unique within their server, and mcpName unique across the
// whole registry. Cross-server mcpName collisions are rejected here so the
// builder fails before writing an ambiguous document.
func Validate(reg *Registry) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if reg.Version == "" {
		result.addError("version", "required field is missing")
	}
	if len(reg.Servers) == 0 {
		result.addWarning("servers", "registry contains no servers")
	}

	seenServers := make(map[string]bool)
	seenMCPNames := make(map[string]string)

	for i := range reg.Servers {
		srv := &reg.Servers[i]
		prefix := fmt.Sprintf("servers[%d]", i)

		validateManifest(srv, prefix, result)

		if srv.Name != "" {
			if seenServers[srv.Name] {
				result.addError(prefix+".name", fmt.Sprintf("duplicate server name: %s", srv.Name))
			}
			seenServers[srv.Name] = true
		}

		for j := range srv.Tools {
			tool := &srv.Tools[j]
			if tool.MCPName == "" {
				continue
			}
			if owner, ok := seenMCPNames[tool.MCPName]; ok {
				result.addError(
					fmt.Sprintf("%s.tools[%d].mcpName", prefix, j),
					fmt.Sprintf("mcpName %q already used by server %q", tool.MCPName, owner),
				)
			} else {
				seenMCPNames[tool.MCPName] = srv.Name
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateManifest checks a single server manifest in isolation.
func ValidateManifest(m *ServerManifest) *ValidationResult {
	result := &ValidationResult{Valid: true}
	validateManifest(m, m.Name, result)
	result.Valid = len(result.Errors) == 0
	return result
}

func validateManifest(m *ServerManifest, prefix string, result *ValidationResult) {
	if m.Name == "" {
		result.addError(prefix+".name", "required field is missing")
	} else if !serverNamePattern.MatchString(m.Name) {
		result.addError(prefix+".name", "must be lowercase letters, numbers, and hyphens, starting with a letter")
	}

	if m.Description == "" {
		result.addError(prefix+".description", "required field is missing")
	}

	if m.Version == "" {
		result.addError(prefix+".version", "required field is missing")
	} else if !versionPattern.MatchString(m.Version) {
		result.addError(prefix+".version", "must be a valid semantic version (e.g., 1.0.0)")
	}

	if len(m.Tools) == 0 {
		result.addError(prefix+".tools", "at least one tool is required")
	}

	if m.APIBaseURL == "" && m.CLIPrefix == "" {
		result.addWarning(prefix, "recommended: set apiBaseUrl or cliPrefix")
	}

	seenTools := make(map[string]bool)
	for i := range m.Tools {
		tool := &m.Tools[i]
		tp := fmt.Sprintf("%s.tools[%d]", prefix, i)

		if tool.Name == "" {
			result.addError(tp+".name", "required field is missing")
		} else {
			if !toolNamePattern.MatchString(tool.Name) {
				result.addError(tp+".name", "must be kebab-case (lowercase letters, numbers, hyphens)")
			}
			if seenTools[tool.Name] {
				result.addError(tp+".name", fmt.Sprintf("duplicate tool name: %s", tool.Name))
			}
			seenTools[tool.Name] = true
		}

		if tool.MCPName == "" {
			result.addError(tp+".mcpName", "required field is missing")
		} else if !mcpNamePattern.MatchString(tool.MCPName) {
			result.addError(tp+".mcpName", "must be <prefix>_<name> in lowercase (e.g., supabase_list-tables)")
		}

		if tool.Description == "" {
			result.addError(tp+".description", "required field is missing")
		} else if len(tool.Description) < 10 {
			result.addError(tp+".description", "must be at least 10 characters")
		}

		if tool.InputSchema == nil {
			result.addError(tp+".inputSchema", "required field is missing")
		} else if tool.InputSchema.Type != "object" {
			result.addError(tp+".inputSchema.type", "must be 'object'")
		}

		if tool.CLICommand == "" && tool.APIEndpoint == "" {
			result.addWarning(tp, "recommended: set cliCommand or apiEndpoint")
		}

		for j, ex := range tool.Examples {
			if ex.Description == "" {
				result.addError(fmt.Sprintf("%s.examples[%d].description", tp, j), "required field is missing")
			}
		}
	}
}
