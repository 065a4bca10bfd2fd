package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

func okResult() *tool.Result {
	return tool.Success("echo", "say-hello", tool.ExecutionAPI, map[string]any{"ok": true}, time.Millisecond)
}

func TestHistory_RecordAndList(t *testing.T) {
	h := NewHistory(10)

	rec := h.Record("echo", "say-hello", map[string]any{"name": "ada"}, okResult(), 5*time.Millisecond)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(5), rec.DurationMs)
	assert.False(t, rec.Timestamp.IsZero())

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "echo", entries[0].Server)
	assert.Equal(t, "say-hello", entries[0].Tool)
}

func TestHistory_MostRecentFirst(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 3; i++ {
		h.Record("echo", fmt.Sprintf("tool-%d", i), nil, okResult(), 0)
	}

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "tool-2", entries[0].Tool)
	assert.Equal(t, "tool-0", entries[2].Tool)
}

func TestHistory_BoundedCapacity(t *testing.T) {
	h := NewHistory(5)
	for i := 0; i < 12; i++ {
		h.Record("echo", fmt.Sprintf("tool-%d", i), nil, okResult(), 0)
	}

	assert.Equal(t, 5, h.Len())
	entries := h.Entries()
	require.Len(t, entries, 5)
	// The oldest entries are evicted; the newest survives at the front.
	assert.Equal(t, "tool-11", entries[0].Tool)
	assert.Equal(t, "tool-7", entries[4].Tool)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, HistoryCapacity, h.Capacity())
}

func TestHistory_EntriesIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Record("echo", "say-hello", nil, okResult(), 0)

	entries := h.Entries()
	entries[0].Tool = "mutated"

	assert.Equal(t, "say-hello", h.Entries()[0].Tool)
}
