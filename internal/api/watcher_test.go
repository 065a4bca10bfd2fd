package api

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	fired := make(chan struct{}, 1)
	w := NewRegistryWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher time to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0o644))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire after registry write")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls int32
	w := NewRegistryWatcher(path, func() {
		atomic.AddInt32(&calls, 1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	// A rapid burst of writes, as an atomic temp-and-rename produces.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(2 * reloadDebounce)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls int32
	w := NewRegistryWatcher(path, func() {
		atomic.AddInt32(&calls, 1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	time.Sleep(2 * reloadDebounce)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
