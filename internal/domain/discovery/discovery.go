// Package discovery is the read path for registry data. It keeps a single
// cached copy of the on-disk registry and degrades every lookup to an
// empty or nil result when no registry is available — registry absence is
// the normal state before the builder has ever run, not an error.
package discovery

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
)

// Service caches and queries the registry document.
type Service struct {
	mu     sync.RWMutex
	cached *registry.Registry

	path   string
	logger *zap.Logger
}

// NewService creates a discovery service reading from path. The cache starts
// empty; the first Load populates it.
func NewService(path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		path:   path,
		logger: logger.Named("discovery"),
	}
}

// Load returns the registry, reading from disk unless useCache is true and a
// cached copy exists. Returns nil (never an error) when the file is missing
// or unparsable.
func (s *Service) Load(useCache bool) *registry.Registry {
	if useCache {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()
		if cached != nil {
			return cached
		}
	}

	reg, err := registry.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("registry file not found; run build-registry to create it",
				zap.String("path", s.path))
		} else {
			s.logger.Error("failed to parse registry file",
				zap.String("path", s.path), zap.Error(err))
		}
		// A read replaces the cache wholesale; a stale copy must not
		// outlive the file that produced it.
		s.mu.Lock()
		s.cached = nil
		s.mu.Unlock()
		return nil
	}

	if reg.Version != registry.SchemaVersion {
		s.logger.Debug("registry schema version differs from current",
			zap.String("got", reg.Version), zap.String("current", registry.SchemaVersion))
	}

	s.mu.Lock()
	s.cached = reg
	s.mu.Unlock()
	return reg
}

// ClearCache drops the cached registry, forcing the next Load to re-read
// from disk. Idempotent.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	s.logger.Debug("registry cache cleared")
}

// ListServers returns server names in registry order.
func (s *Service) ListServers() []string {
	reg := s.Load(true)
	if reg == nil {
		return []string{}
	}
	return reg.ServerNames()
}

// ServerManifest returns the manifest for a server, or nil if unknown.
func (s *Service) ServerManifest(name string) *registry.ServerManifest {
	reg := s.Load(true)
	if reg == nil {
		return nil
	}
	return reg.ByName(name)
}

// ListTools returns the tool definitions for a server, empty if unknown.
func (s *Service) ListTools(server string) []registry.ToolDefinition {
	m := s.ServerManifest(server)
	if m == nil {
		return []registry.ToolDefinition{}
	}
	return m.Tools
}

// ToolDefinition returns one tool definition, or nil.
func (s *Service) ToolDefinition(server, tool string) *registry.ToolDefinition {
	m := s.ServerManifest(server)
	if m == nil {
		return nil
	}
	return m.Tool(tool)
}

// SearchOptions narrows a tool search.
type SearchOptions struct {
	ServerFilter string
	TagFilter    []string
}

// SearchHit pairs a matching tool with its owning server.
type SearchHit struct {
	Server string                  `json:"server"`
	Tool   registry.ToolDefinition `json:"tool"`
}

// Search performs a case-insensitive substring match against tool name,
// description, tags, and fully-qualified mcpName (OR across the four
// fields). When a tag filter is given, a tool must additionally have at
// least one tag matching at least one filter term. Results preserve registry
// iteration order; there is no ranking.
func (s *Service) Search(query string, opts SearchOptions) []SearchHit {
	hits := []SearchHit{}
	reg := s.Load(true)
	if reg == nil {
		return hits
	}

	q := strings.ToLower(query)
	for _, srv := range reg.Servers {
		if opts.ServerFilter != "" && srv.Name != opts.ServerFilter {
			continue
		}
		for _, t := range srv.Tools {
			if !matchesQuery(&t, q) {
				continue
			}
			if len(opts.TagFilter) > 0 && !matchesTags(t.Tags, opts.TagFilter) {
				continue
			}
			hits = append(hits, SearchHit{Server: srv.Name, Tool: t})
		}
	}
	return hits
}

func matchesQuery(t *registry.ToolDefinition, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.MCPName), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesTags(tags, filter []string) bool {
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		for _, f := range filter {
			if strings.Contains(lt, strings.ToLower(f)) {
				return true
			}
		}
	}
	return false
}

// Stats derives aggregate counts from the loaded registry. An all-zero shape
// with a nil LastUpdated is returned when no registry is available.
func (s *Service) Stats() registry.Stats {
	stats := registry.Stats{ToolsByServer: map[string]int{}}
	reg := s.Load(true)
	if reg == nil {
		return stats
	}

	stats.TotalServers = len(reg.Servers)
	for _, srv := range reg.Servers {
		stats.ToolsByServer[srv.Name] = len(srv.Tools)
		stats.TotalTools += len(srv.Tools)
	}
	updated := reg.LastUpdated
	stats.LastUpdated = &updated
	return stats
}
