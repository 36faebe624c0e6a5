package bridge

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vtodo/internal/coordinator"
	"vtodo/internal/remote"
)

// Manager owns the loaded entries of a process, keyed by entry id.
type Manager struct {
	opts  Options
	sched coordinator.Scheduler

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewManager creates a manager. Entries it sets up start polling with sched;
// a nil sched leaves polling to the caller.
func NewManager(opts Options, sched coordinator.Scheduler) *Manager {
	return &Manager{
		opts:    opts,
		sched:   sched,
		entries: make(map[string]*Entry),
	}
}

// Setup sets up and records an entry. Setting up an id that is already
// loaded is an error; use Reload.
func (m *Manager) Setup(ctx context.Context, entryID string, backend remote.Backend) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entryID]; ok {
		return nil, fmt.Errorf("entry %s already loaded", entryID)
	}
	return m.setupLocked(ctx, entryID, backend)
}

func (m *Manager) setupLocked(ctx context.Context, entryID string, backend remote.Backend) (*Entry, error) {
	e, err := Setup(ctx, entryID, backend, m.opts)
	if err != nil {
		return nil, err
	}
	if m.sched != nil {
		e.Start(ctx, m.sched)
	}
	m.entries[entryID] = e
	return e, nil
}

// Unload unloads an entry. It reports whether the entry was loaded.
func (m *Manager) Unload(entryID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return false
	}
	e.Unload()
	delete(m.entries, entryID)
	return true
}

// Reload unloads the entry, if loaded, and sets it up again with backend.
// This is the path taken when settings or credentials change.
func (m *Manager) Reload(ctx context.Context, entryID string, backend remote.Backend) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[entryID]; ok {
		e.Unload()
		delete(m.entries, entryID)
	}
	return m.setupLocked(ctx, entryID, backend)
}

// SetInterval changes the polling period for entries set up from now on.
func (m *Manager) SetInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Interval = d
}

// Entry returns a loaded entry.
func (m *Manager) Entry(entryID string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	return e, ok
}

// IDs returns the loaded entry ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close unloads every entry.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		e.Unload()
		delete(m.entries, id)
	}
}
