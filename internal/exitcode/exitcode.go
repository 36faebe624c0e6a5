// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"vtodo/internal/bridge"
	"vtodo/internal/config"
	"vtodo/internal/remote"
	"vtodo/internal/todo"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, ambiguous).
	UserError = 1

	// AuthError indicates a rejected or missing credential.
	AuthError = 2

	// BackendError indicates a backend, network or not-ready error.
	BackendError = 3
)

// FromError maps an error to an exit code.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, bridge.ErrReauthRequired),
		errors.Is(err, config.ErrMissingCredentials),
		remote.IsAuth(err):
		return AuthError
	case errors.Is(err, todo.ErrNotFound), errors.Is(err, todo.ErrAmbiguous):
		return UserError
	default:
		return BackendError
	}
}
