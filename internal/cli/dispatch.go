// Package cli parses the command line and runs commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"vtodo/internal/bridge"
	"vtodo/internal/commands"
	"vtodo/internal/config"
	"vtodo/internal/exitcode"
	"vtodo/internal/slogger"
	"vtodo/internal/todo"
)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  commands.BackendFactory
}

// NewDispatcher creates a dispatcher over registry. factory builds the
// backend for commands that need one.
func NewDispatcher(registry *commands.Registry, factory commands.BackendFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := "list"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	cmd, ok := d.registry.Find(name)
	if !ok || strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir string
	var quiet, debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	env := &commands.Env{
		Config:     cfg,
		Lists:      todo.NewRegistry(),
		NewBackend: d.factory,
		Logger:     newLogger(cfg, errOut, slogger.LevelWarn),
		Out:        out,
		ErrOut:     errOut,
	}

	if cmd.Needs() >= commands.NeedsBackend {
		if err := cfg.Load(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.FromError(err)
		}
		env.Logger = newLogger(cfg, errOut, slogger.LevelFromString(cfg.LogLevel))

		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend available")
			return exitcode.BackendError
		}
		env.Backend, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.FromError(err)
		}
	}

	if cmd.Needs() >= commands.NeedsLists {
		entry, err := bridge.Setup(ctx, cfg.EntryID, env.Backend, bridge.Options{
			Interval: cfg.PollInterval.Duration(),
			Logger:   env.Logger,
			Host:     env.Lists,
		})
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.FromError(err)
		}
		defer entry.Unload()
	}

	return cmd.Run(ctx, env, positional)
}

func newLogger(cfg *config.Config, w io.Writer, level slogger.LogLevel) slogger.Logger {
	switch {
	case cfg.Debug:
		level = slogger.LevelDebug
	case cfg.Quiet:
		level = slogger.LevelError
	}
	return slogger.New(w, level)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	const undefined = "flag provided but not defined: "
	if msg := err.Error(); strings.HasPrefix(msg, undefined) {
		return "unknown flag: " + strings.TrimPrefix(msg, undefined)
	}
	return err.Error()
}
