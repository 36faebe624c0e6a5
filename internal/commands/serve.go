package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"vtodo/internal/bridge"
	"vtodo/internal/config"
	"vtodo/internal/coordinator"
	"vtodo/internal/exitcode"
	"vtodo/internal/slogger"
	"vtodo/internal/web"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd keeps the lists refreshed until interrupted, optionally serving
// them over HTTP, and reloads when the settings file changes.
type ServeCmd struct {
	listen string

	// Scheduler overrides the polling scheduler (for testing).
	Scheduler coordinator.Scheduler
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Poll lists and serve them over HTTP" }
func (c *ServeCmd) Usage() string      { return "vtodo serve [--listen <addr>]" }
func (c *ServeCmd) Needs() Requirement { return NeedsBackend }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listen, "listen", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string) int {
	cfg := env.Config
	logger := slogger.OrDevNull(env.Logger)

	sched := c.Scheduler
	if sched == nil {
		sched = coordinator.TickerScheduler{}
	}
	m := bridge.NewManager(bridge.Options{
		Interval: cfg.PollInterval.Duration(),
		Logger:   logger,
		Host:     env.Lists,
	}, sched)
	defer m.Close()

	e, err := m.Setup(ctx, cfg.EntryID, env.Backend)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.FromError(err)
	}
	watchLists(e, logger)

	errCh := make(chan error, 2)
	addr := cfg.ListenAddr
	if c.listen != "" {
		addr = c.listen
	}
	if addr != "" {
		srv := web.NewServer(env.Lists, logger)
		go func() { errCh <- srv.Run(ctx, addr) }()
	}

	r := &reloader{manager: m, entryID: cfg.EntryID, dir: cfg.Dir, env: env, logger: logger}
	go func() {
		if err := config.Watch(ctx, cfg.SettingsPath(), config.DefaultWatchDebounce, func() { r.reload(ctx) }); err != nil {
			logger.Warn("settings watch stopped", "error", err)
		}
	}()

	logger.Info("serving", "entry", cfg.EntryID, "lists", len(e.Lists()), "interval", cfg.PollInterval.Duration())
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.BackendError
		}
	}
	return exitcode.Success
}

// watchLists logs every refresh of the entry's lists.
func watchLists(e *bridge.Entry, logger slogger.Logger) {
	for _, l := range e.Lists() {
		l := l // per-iteration copy; go.mod targets go1.21 loop semantics
		l.Coordinator().AddListener(func() {
			items, _ := l.Items()
			logger.Debug("list refreshed", "list", l.Name(), "available", l.Available(), "items", len(items))
		})
	}
}

// reloader sets the entry up again after the settings file changes.
type reloader struct {
	manager *bridge.Manager
	entryID string
	dir     string
	env     *Env
	logger  slogger.Logger
}

func (r *reloader) reload(ctx context.Context) {
	cfg, err := config.New(r.dir)
	if err == nil {
		err = cfg.Load()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		r.logger.Error("settings changed but cannot be used, keeping current entry", "error", err)
		return
	}

	backend, err := r.env.NewBackend(ctx, cfg)
	if err != nil {
		r.logger.Error("cannot create backend", "error", err)
		return
	}

	if cfg.EntryID != r.entryID {
		r.manager.Unload(r.entryID)
		r.entryID = cfg.EntryID
	}
	r.manager.SetInterval(cfg.PollInterval.Duration())
	e, err := r.manager.Reload(ctx, cfg.EntryID, backend)
	if err != nil {
		r.logger.Error("reload failed", "error", err)
		return
	}
	watchLists(e, r.logger)
	r.logger.Info("reloaded", "entry", cfg.EntryID, "lists", len(e.Lists()))
}
