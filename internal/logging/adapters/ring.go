package adapters

import (
	"sync"

	"jobsight/internal/logging/types"
)

// RingAdapter keeps the most recent entries in memory so they can be served
// back over the API. Oldest entries are overwritten once the buffer is full.
type RingAdapter struct {
	name    string
	entries []types.LogEntry
	next    int
	full    bool
	mu      sync.RWMutex
}

// RingConfig represents configuration for the ring adapter
type RingConfig struct {
	Capacity int `yaml:"capacity"`
}

// NewRingAdapter creates a ring buffer adapter; capacity defaults to 500
func NewRingAdapter(name string, config RingConfig) *RingAdapter {
	if config.Capacity <= 0 {
		config.Capacity = 500
	}
	return &RingAdapter{
		name:    name,
		entries: make([]types.LogEntry, config.Capacity),
	}
}

func (a *RingAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	e := *entry
	e.Context = nil
	a.entries[a.next] = e
	a.next = (a.next + 1) % len(a.entries)
	if a.next == 0 {
		a.full = true
	}
	return nil
}

// Entries returns buffered entries oldest first, at or above minLevel
func (a *RingAdapter) Entries(minLevel types.LogLevel) []types.LogEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var ordered []types.LogEntry
	if a.full {
		ordered = append(ordered, a.entries[a.next:]...)
	}
	ordered = append(ordered, a.entries[:a.next]...)

	out := make([]types.LogEntry, 0, len(ordered))
	for _, e := range ordered {
		if e.Level >= minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every buffered entry
func (a *RingAdapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.entries {
		a.entries[i] = types.LogEntry{}
	}
	a.next = 0
	a.full = false
}

func (a *RingAdapter) Close() error { return nil }

func (a *RingAdapter) Health() error { return nil }

func (a *RingAdapter) Name() string { return a.name }
