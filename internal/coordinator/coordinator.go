// Package coordinator polls one remote project and caches its tasks.
//
// A Coordinator owns the only copy of a project's task snapshot. The snapshot
// is replaced wholesale after each successful fetch and read without locks.
// Fetches are serialized: while one is in flight, any number of further
// refresh requests collapse into a single follow-up fetch that starts once
// the current one completes. A request therefore never observes a fetch that
// started before it was made.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"vtodo/internal/remote"
	"vtodo/internal/slogger"
)

// DefaultInterval is the polling period of a coordinator.
const DefaultInterval = 5 * time.Minute

var (
	// ErrReauthRequired means the stored credential was rejected. It is not
	// retried; the user has to supply a new credential.
	ErrReauthRequired = errors.New("reauthentication required")

	// ErrUpdateFailed is a transient refresh failure. The next scheduled
	// refresh is the retry.
	ErrUpdateFailed = errors.New("update failed")
)

const refreshKey = "refresh"

// Coordinator manages fetching one project's tasks.
type Coordinator struct {
	backend   remote.Backend
	projectID string
	name      string
	interval  time.Duration
	logger    slogger.Logger

	data    atomic.Pointer[[]remote.Task]
	lastErr atomic.Pointer[error]

	group   singleflight.Group
	fetchMu sync.Mutex

	listenersMu sync.Mutex
	listeners   map[int]func()
	nextID      int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l slogger.Logger) Option {
	return func(c *Coordinator) { c.logger = slogger.OrDevNull(l) }
}

// WithName sets the name used in logs.
func WithName(name string) Option {
	return func(c *Coordinator) { c.name = name }
}

// New creates a coordinator for a project. It holds no data until the
// first successful refresh.
func New(backend remote.Backend, projectID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:   backend,
		projectID: projectID,
		name:      "tasks " + projectID,
		interval:  DefaultInterval,
		logger:    slogger.NewDevNullLogger(),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("coordinator", c.name)
	return c
}

// ProjectID returns the project this coordinator polls.
func (c *Coordinator) ProjectID() string { return c.projectID }

// Interval returns the polling period.
func (c *Coordinator) Interval() time.Duration { return c.interval }

// Backend returns the backend the coordinator fetches from.
func (c *Coordinator) Backend() remote.Backend { return c.backend }

// Data returns the latest snapshot. ok is false before the first successful
// refresh. The returned slice must not be modified.
func (c *Coordinator) Data() (tasks []remote.Task, ok bool) {
	p := c.data.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// LastUpdateSuccess reports whether the most recent refresh succeeded.
func (c *Coordinator) LastUpdateSuccess() bool {
	return c.LastError() == nil && c.data.Load() != nil
}

// LastError returns the error of the most recent refresh, or nil.
func (c *Coordinator) LastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// FirstRefresh performs the initial fetch. Setup must fail if it does.
func (c *Coordinator) FirstRefresh(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("first refresh of %s: %w", c.name, err)
	}
	return nil
}

// Refresh fetches the project's tasks and replaces the snapshot. A rejected
// credential yields ErrReauthRequired; every other failure ErrUpdateFailed.
// On failure the previous snapshot stays in place.
//
// The fetch is shared with every caller that joins it, so it does not observe
// the cancellation of ctx; RequestTimeout still bounds it. A caller whose ctx
// ends first gets ctx.Err() while the fetch carries on for the others.
func (c *Coordinator) Refresh(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		c.fetchMu.Lock()
		defer c.fetchMu.Unlock()
		// Requests arriving from here on wait for a fetch of their own.
		c.group.Forget(refreshKey)
		return nil, c.update(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) update(ctx context.Context) error {
	start := time.Now()
	tasks, err := c.backend.ListTasks(ctx, c.projectID)
	if err != nil {
		switch {
		case remote.IsAuth(err):
			err = fmt.Errorf("%w: %w", ErrReauthRequired, err)
		case errors.Is(err, context.Canceled):
			// Cancellation leaves the recorded state alone.
			return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		default:
			err = fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		}
		c.lastErr.Store(&err)
		c.notify()
		return err
	}

	if tasks == nil {
		tasks = []remote.Task{}
	}
	c.data.Store(&tasks)
	c.lastErr.Store(nil)
	c.logger.Debug("refreshed", "tasks", len(tasks), "took", time.Since(start))
	c.notify()
	return nil
}

// AddListener registers fn to be called after every refresh attempt.
// The returned function removes it.
func (c *Coordinator) AddListener(fn func()) (remove func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) notify() {
	c.listenersMu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Start schedules periodic refreshes until ctx is done or stop is called.
// Failed refreshes are logged and retried on the next tick only.
func (c *Coordinator) Start(ctx context.Context, sched Scheduler) (stop func()) {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return sched.Every(ctx, c.interval, func(ctx context.Context) {
		err := c.Refresh(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrReauthRequired):
			c.logger.Error("credential rejected, reauthentication required", "error", err)
		case ctx.Err() != nil:
			// Shutting down.
		default:
			c.logger.Warn("refresh failed, retrying on next tick", "error", err, "interval", c.interval)
		}
	})
}
