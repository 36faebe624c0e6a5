// Package bridge wires a remote backend into a to-do registry: one
// coordinator and one list per remote project, grouped into an Entry.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vtodo/internal/coordinator"
	"vtodo/internal/remote"
	"vtodo/internal/slogger"
	"vtodo/internal/tasklist"
	"vtodo/internal/todo"
)

var (
	// ErrReauthRequired means setup failed because the credential was
	// rejected. Retrying will not help until it is replaced.
	ErrReauthRequired = errors.New("reauthentication required")

	// ErrNotReady means setup failed for a reason that may go away, such as
	// an unreachable server. The host should retry later.
	ErrNotReady = errors.New("not ready")
)

// Options configures Setup.
type Options struct {
	// Interval is the polling period of every coordinator.
	Interval time.Duration

	// Logger receives setup and refresh logs. Nil discards them.
	Logger slogger.Logger

	// Host is the registry lists are registered in. Nil creates a new one.
	Host *todo.Registry
}

// Entry is one configured integration instance: its backend, a coordinator
// and list per project, and the registry hosting those lists.
type Entry struct {
	id      string
	backend remote.Backend
	host    *todo.Registry
	logger  slogger.Logger
	lists   []*tasklist.TaskList

	mu       sync.Mutex
	stops    []func()
	unloaded bool
}

// Setup lists the backend's projects, performs a first refresh for each and
// registers one list per project with the host. If any step fails nothing
// stays registered. A rejected credential yields ErrReauthRequired, anything
// else ErrNotReady.
func Setup(ctx context.Context, entryID string, backend remote.Backend, opts Options) (*Entry, error) {
	logger := slogger.OrDevNull(opts.Logger).With("entry", entryID)
	host := opts.Host
	if host == nil {
		host = todo.NewRegistry()
	}

	projects, err := backend.ListProjects(ctx)
	if err != nil {
		return nil, setupError(err)
	}

	e := &Entry{
		id:      entryID,
		backend: backend,
		host:    host,
		logger:  logger,
		lists:   make([]*tasklist.TaskList, 0, len(projects)),
	}

	for _, p := range projects {
		coord := coordinator.New(backend, p.ID,
			coordinator.WithInterval(opts.Interval),
			coordinator.WithLogger(logger),
			coordinator.WithName(p.Title),
		)
		if err := coord.FirstRefresh(ctx); err != nil {
			return nil, setupError(err)
		}
		e.lists = append(e.lists, tasklist.New(entryID, p, coord, backend, tasklist.WithLogger(logger)))
	}

	for i, l := range e.lists {
		if err := host.Register(l); err != nil {
			for _, registered := range e.lists[:i] {
				host.Unregister(registered.UniqueID())
			}
			return nil, fmt.Errorf("%w: %w", ErrNotReady, err)
		}
	}

	logger.Debug("entry set up", "lists", len(e.lists))
	return e, nil
}

func setupError(err error) error {
	if remote.IsAuth(err) || errors.Is(err, coordinator.ErrReauthRequired) {
		return fmt.Errorf("%w: %w", ErrReauthRequired, err)
	}
	return fmt.Errorf("%w: %w", ErrNotReady, err)
}

// ID returns the entry id.
func (e *Entry) ID() string { return e.id }

// Backend returns the backend the entry was set up with.
func (e *Entry) Backend() remote.Backend { return e.backend }

// Host returns the registry the entry's lists are registered in.
func (e *Entry) Host() *todo.Registry { return e.host }

// Lists returns the entry's lists in project order.
func (e *Entry) Lists() []*tasklist.TaskList {
	return append([]*tasklist.TaskList(nil), e.lists...)
}

// Start begins periodic polling of every project. Calling it again, or after
// Unload, does nothing.
func (e *Entry) Start(ctx context.Context, sched coordinator.Scheduler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unloaded || e.stops != nil {
		return
	}
	e.stops = make([]func(), 0, len(e.lists))
	for _, l := range e.lists {
		e.stops = append(e.stops, l.Coordinator().Start(ctx, sched))
	}
}

// Unload stops polling and unregisters the entry's lists. It is safe to
// call more than once.
func (e *Entry) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unloaded {
		return
	}
	e.unloaded = true
	for _, stop := range e.stops {
		stop()
	}
	e.stops = nil
	for _, l := range e.lists {
		e.host.Unregister(l.UniqueID())
	}
	e.logger.Debug("entry unloaded")
}
