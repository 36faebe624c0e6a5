// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"vtodo/internal/config"
	"vtodo/internal/remote"
	"vtodo/internal/slogger"
	"vtodo/internal/todo"
)

// Requirement is what a command needs prepared before it runs.
type Requirement int

const (
	// NeedsNothing commands run with only the config directory resolved.
	NeedsNothing Requirement = iota

	// NeedsBackend commands get loaded settings and a backend.
	NeedsBackend

	// NeedsLists commands additionally get the backend's lists set up and
	// refreshed once in Env.Lists.
	NeedsLists
)

func (r Requirement) valid() bool {
	return r >= NeedsNothing && r <= NeedsLists
}

func (r Requirement) String() string {
	switch r {
	case NeedsNothing:
		return "nothing"
	case NeedsBackend:
		return "backend"
	case NeedsLists:
		return "lists"
	default:
		return fmt.Sprintf("Requirement(%d)", int(r))
	}
}

// BackendFactory creates the backend selected by cfg.
type BackendFactory func(ctx context.Context, cfg *config.Config) (remote.Backend, error)

// Env is what a command runs against.
type Env struct {
	// Config is always provided. Settings are loaded unless the command
	// needs nothing.
	Config *config.Config

	// Backend is nil for NeedsNothing commands.
	Backend remote.Backend

	// Lists holds the set-up lists for NeedsLists commands. It is empty
	// otherwise.
	Lists *todo.Registry

	// NewBackend rebuilds a backend after settings change.
	NewBackend BackendFactory

	Logger slogger.Logger
	Out    io.Writer
	ErrOut io.Writer
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Needs reports what the dispatcher must prepare.
	Needs() Requirement

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit
	// code.
	Run(ctx context.Context, env *Env, args []string) int
}
