package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

// HistoryCapacity is the fixed size of the execution history ring buffer.
const HistoryCapacity = 100

// ExecutionRecord is one entry in the execution history. Entirely in-memory;
// lost on restart.
type ExecutionRecord struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Server     string         `json:"server"`
	Tool       string         `json:"tool"`
	Input      map[string]any `json:"input"`
	Result     *tool.Result   `json:"result"`
	DurationMs int64          `json:"durationMs"`
}

// History is a fixed-capacity, most-recent-first log of tool invocations.
type History struct {
	mu       sync.RWMutex
	records  []ExecutionRecord
	capacity int
}

// NewHistory creates a history buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{capacity: capacity}
}

// Record appends an invocation, evicting the oldest entry beyond capacity.
func (h *History) Record(server, toolName string, input map[string]any, result *tool.Result, duration time.Duration) ExecutionRecord {
	rec := ExecutionRecord{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Server:     server,
		Tool:       toolName,
		Input:      input,
		Result:     result,
		DurationMs: duration.Milliseconds(),
	}

	h.mu.Lock()
	h.records = append([]ExecutionRecord{rec}, h.records...)
	if len(h.records) > h.capacity {
		h.records = h.records[:h.capacity]
	}
	h.mu.Unlock()

	return rec
}

// Entries returns a copy of the buffer, most recent first.
func (h *History) Entries() []ExecutionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ExecutionRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Capacity returns the fixed buffer capacity.
func (h *History) Capacity() int {
	return h.capacity
}
