package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
	cmds   []Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command. The name and aliases must be unique, must not
// look like flags, and the command must declare a known requirement so the
// dispatcher knows what to prepare for it.
func (r *Registry) Register(c Command) error {
	if !c.Needs().valid() {
		return fmt.Errorf("command %s: unknown requirement %v", c.Name(), c.Needs())
	}
	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t") {
			return fmt.Errorf("command %s: invalid name %q", c.Name(), name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, exists := r.byName[name]; exists || seen[name] {
			return fmt.Errorf("command name already registered: %s", name)
		}
		seen[name] = true
	}

	for _, name := range names {
		r.byName[name] = c
	}
	r.cmds = append(r.cmds, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	result := append([]Command(nil), r.cmds...)
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// DefaultRegistry holds the commands registered by init.
var DefaultRegistry = NewRegistry()

// Register adds a command to DefaultRegistry and panics on failure.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
