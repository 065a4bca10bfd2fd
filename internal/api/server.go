// Package api binds the discovery and dispatch layers to REST routes, and
// owns the execution history and the registry reload trigger.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/dispatch"
)

// Server is the unified HTTP façade over discovery and dispatch.
type Server struct {
	mux        *http.ServeMux
	discovery  *discovery.Service
	dispatcher *dispatch.Dispatcher
	history    *History
	metrics    *Metrics
	logger     *zap.Logger
	startTime  time.Time
}

// NewServer wires the façade. history and metrics may be nil, in which case
// fresh instances are created.
func NewServer(disc *discovery.Service, disp *dispatch.Dispatcher, history *History, metrics *Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		history = NewHistory(HistoryCapacity)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	s := &Server{
		mux:        http.NewServeMux(),
		discovery:  disc,
		dispatcher: disp,
		history:    history,
		metrics:    metrics,
		logger:     logger.Named("api"),
		startTime:  time.Now(),
	}
	s.routes()
	return s
}

// History exposes the execution history (used by the reload/watcher wiring
// in main and by tests).
func (s *Server) History() *History {
	return s.history
}

// Reload clears the discovery cache and re-reads the registry from disk.
// This is the single invalidation path shared by the manual endpoint and
// the file watcher.
func (s *Server) Reload() {
	s.discovery.ClearCache()
	s.discovery.Load(false)
	s.metrics.ObserveReload()
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /mcp/servers", s.handleListServers)
	s.mux.HandleFunc("GET /mcp/servers/{server}", s.handleGetServer)
	s.mux.HandleFunc("GET /mcp/servers/{server}/tools", s.handleListTools)
	s.mux.HandleFunc("GET /mcp/servers/{server}/tools/{tool}", s.handleGetTool)
	s.mux.HandleFunc("POST /mcp/servers/{server}/tools/{tool}/run", s.handleRun)
	s.mux.HandleFunc("GET /mcp/tools/search", s.handleSearch)
	s.mux.HandleFunc("GET /mcp/stats", s.handleStats)
	s.mux.HandleFunc("GET /mcp/history", s.handleHistory)
	s.mux.HandleFunc("GET /mcp/health", s.handleHealth)
	s.mux.HandleFunc("POST /mcp/reload", s.handleReload)
	s.mux.Handle("GET /mcp/metrics", s.metrics.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Global CORS headers; the façade runs on a trusted local network.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleListServers(w http.ResponseWriter, r *http.Request) {
	servers := s.discovery.ListServers()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"servers": servers,
		"count":   len(servers),
	})
}

func (s *Server) handleGetServer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("server")
	manifest := s.discovery.ServerManifest(name)
	if manifest == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]any{
			"error":            fmt.Sprintf("unknown server: %s", name),
			"availableServers": s.discovery.ListServers(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, manifest)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("server")
	if s.discovery.ServerManifest(name) == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]any{
			"error":            fmt.Sprintf("unknown server: %s", name),
			"availableServers": s.discovery.ListServers(),
		})
		return
	}
	tools := s.discovery.ListTools(name)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"server": name,
		"tools":  tools,
		"count":  len(tools),
	})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	server := r.PathValue("server")
	toolName := r.PathValue("tool")

	def := s.discovery.ToolDefinition(server, toolName)
	if def == nil {
		manifest := s.discovery.ServerManifest(server)
		if manifest == nil {
			s.writeJSON(w, http.StatusNotFound, map[string]any{
				"error":            fmt.Sprintf("unknown server: %s", server),
				"availableServers": s.discovery.ListServers(),
			})
			return
		}
		s.writeJSON(w, http.StatusNotFound, map[string]any{
			"error":          fmt.Sprintf("unknown tool %s on server %s", toolName, server),
			"availableTools": manifest.ToolNames(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	server := r.PathValue("server")
	toolName := r.PathValue("tool")

	var input map[string]any
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil && err != io.EOF {
			s.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": fmt.Sprintf("invalid JSON body: %v", err),
			})
			return
		}
	}
	if input == nil {
		input = map[string]any{}
	}

	start := time.Now()
	result, resolution := s.dispatcher.Execute(r.Context(), server, toolName, input)
	duration := time.Since(start)

	// Every invocation lands in history before the response goes out.
	s.history.Record(server, toolName, input, result, duration)
	s.metrics.ObserveExecution(server, toolName, result.Success, duration.Seconds())

	// Status reflects the dispatch stage, not the envelope's error code: a
	// tool-level failure (even one reporting an upstream NOT_FOUND) is a
	// completed execution and stays HTTP 200.
	status := http.StatusOK
	switch resolution {
	case dispatch.ResolutionUnknownTarget:
		status = http.StatusNotFound
	case dispatch.ResolutionDrift:
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "query parameter q is required",
		})
		return
	}

	opts := discovery.SearchOptions{
		ServerFilter: r.URL.Query().Get("server"),
		TagFilter:    r.URL.Query()["tag"],
	}
	hits := s.discovery.Search(q, opts)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": hits,
		"count":   len(hits),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.discovery.Stats())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"history":  s.history.Entries(),
		"count":    s.history.Len(),
		"capacity": s.history.Capacity(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.Reload()
	s.logger.Info("registry cache reloaded")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"stats":  s.discovery.Stats(),
	})
}
