// Command toolhub runs the unified tool server: registry discovery, tool
// dispatch, execution history and hot reload behind one HTTP port, guarded
// by a single-instance lock.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/mcp-toolhub/toolhub/internal/api"
	"github.com/mcp-toolhub/toolhub/internal/config"
	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/dispatch"
	"github.com/mcp-toolhub/toolhub/internal/domain/lock"
	"github.com/mcp-toolhub/toolhub/internal/servers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	appDir := config.Dir()
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create app dir: %w", err)
	}

	store := config.NewStore(filepath.Join(appDir, "toolhub.yaml"))
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Lock conflicts are fatal at startup; this is the one place the core
	// refuses to proceed rather than degrading.
	instanceLock := lock.New(settings.LockPath, logger)
	if err := instanceLock.Acquire(settings.Port); err != nil {
		return err
	}
	defer instanceLock.Release()

	disc := discovery.NewService(settings.RegistryPath, logger)
	disp := dispatch.NewDispatcher(disc, servers.All(), logger)
	server := api.NewServer(disc, disp, nil, nil, logger)

	// Warm the cache; a missing registry logs a warning and the façade
	// serves empty shapes until build-registry runs.
	disc.Load(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := api.NewRegistryWatcher(settings.RegistryPath, server.Reload, logger)
	go watcher.Run(ctx)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.Port),
		Handler: server,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("unified tool server listening", zap.Int("port", settings.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		httpServer.Shutdown(context.Background())
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("TOOLHUB_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
