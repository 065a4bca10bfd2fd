// Package servers assembles the compiled-in server modules. This table is
// the single place a new integration gets registered: its module appears
// here, its manifest flows into the registry via build-registry, and its
// handlers become dispatchable.
package servers

import (
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
	"github.com/mcp-toolhub/toolhub/internal/servers/boldsign"
	"github.com/mcp-toolhub/toolhub/internal/servers/shadcn"
	"github.com/mcp-toolhub/toolhub/internal/servers/stripe"
	"github.com/mcp-toolhub/toolhub/internal/servers/supabase"
)

// All returns every server module in registry order.
func All() []tool.Module {
	return []tool.Module{
		supabase.Module(),
		boldsign.Module(),
		stripe.Module(),
		shadcn.Module(),
	}
}

// Manifests returns the manifests of all modules, in the same order.
func Manifests() []registry.ServerManifest {
	modules := All()
	manifests := make([]registry.ServerManifest, 0, len(modules))
	for _, m := range modules {
		manifests = append(manifests, m.Manifest)
	}
	return manifests
}
