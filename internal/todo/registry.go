package todo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when no list matches.
	ErrNotFound = errors.New("list not found")

	// ErrAmbiguous is returned when more than one list matches a name.
	ErrAmbiguous = errors.New("ambiguous list name")
)

// Registry hosts to-do lists keyed by unique id.
type Registry struct {
	mu    sync.RWMutex
	lists map[string]List
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{lists: make(map[string]List)}
}

// Register adds a list. It fails if the unique id is already registered.
func (r *Registry) Register(l List) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid := l.UniqueID()
	if _, exists := r.lists[uid]; exists {
		return fmt.Errorf("list already registered: %s", uid)
	}
	r.lists[uid] = l
	return nil
}

// Unregister removes a list. Removing an unknown id is a no-op.
func (r *Registry) Unregister(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, uid)
}

// Get looks up a list by unique id.
func (r *Registry) Get(uid string) (List, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lists[uid]
	return l, ok
}

// Lists returns all lists sorted by name, then unique id.
func (r *Registry) Lists() []List {
	r.mu.RLock()
	result := make([]List, 0, len(r.lists))
	for _, l := range r.lists {
		result = append(result, l)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name() != result[j].Name() {
			return result[i].Name() < result[j].Name()
		}
		return result[i].UniqueID() < result[j].UniqueID()
	})
	return result
}

// Find resolves a list by name (case-insensitive, trimmed).
func (r *Registry) Find(name string) (List, error) {
	name = strings.TrimSpace(name)

	var matches []List
	for _, l := range r.Lists() {
		if strings.EqualFold(strings.TrimSpace(l.Name()), name) {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, name)
	}
}

// Len returns the number of registered lists.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lists)
}
