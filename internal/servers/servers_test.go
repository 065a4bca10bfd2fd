package servers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-toolhub/toolhub/internal/domain/dispatch"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
)

func TestAllManifestsValidate(t *testing.T) {
	for _, m := range Manifests() {
		manifest := m
		t.Run(manifest.Name, func(t *testing.T) {
			result := registry.ValidateManifest(&manifest)
			assert.True(t, result.Valid, "manifest %s invalid: %v", manifest.Name, result.Errors)
		})
	}
}

func TestRegistryBuildsFromAllModules(t *testing.T) {
	reg, result, err := registry.Build(Manifests())
	require.NoError(t, err, "validation errors: %v", result.Errors)
	assert.Equal(t, []string{"supabase", "boldsign", "stripe", "shadcn"}, reg.ServerNames())
}

// Every tool in each manifest must resolve to a handler under the kebab to
// camel naming rule, and every handler must correspond to a declared tool.
func TestHandlersMatchManifests(t *testing.T) {
	for _, module := range All() {
		m := module
		t.Run(m.Manifest.Name, func(t *testing.T) {
			declared := make(map[string]bool)
			for _, def := range m.Manifest.Tools {
				fnName := dispatch.KebabToCamel(def.Name)
				declared[fnName] = true
				assert.Contains(t, m.Handlers, fnName,
					"tool %s has no handler %s", def.Name, fnName)
				assert.NotNil(t, m.Handlers[fnName])
			}
			for fnName := range m.Handlers {
				assert.True(t, declared[fnName],
					"handler %s has no tool in the manifest", fnName)
			}
		})
	}
}

func TestMCPNamesCarryServerPrefix(t *testing.T) {
	for _, m := range Manifests() {
		for _, def := range m.Tools {
			assert.Equal(t, m.Name+"_"+def.Name, def.MCPName,
				"tool %s.%s has mismatched mcpName %s", m.Name, def.Name, def.MCPName)
		}
	}
}
