// Package main is the entry point for the vtodo CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vtodo/internal/backend/googletasks"
	"vtodo/internal/backend/vikunja"
	"vtodo/internal/cli"
	"vtodo/internal/commands"
	"vtodo/internal/config"
	"vtodo/internal/remote"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newBackend)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// newBackend builds the backend selected in the settings.
func newBackend(ctx context.Context, cfg *config.Config) (remote.Backend, error) {
	switch cfg.Backend {
	case config.BackendVikunja:
		return vikunja.New(cfg.APIURL, cfg.APIKey, &http.Client{}), nil
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
}
