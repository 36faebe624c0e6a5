package bridge

import (
	"context"
	"errors"

	"vtodo/internal/remote"
)

// CredentialProblem describes why a credential check failed.
type CredentialProblem string

const (
	CredentialsOK      CredentialProblem = ""
	CredentialsAuth    CredentialProblem = "auth"
	CredentialsConnect CredentialProblem = "connection"
	CredentialsUnknown CredentialProblem = "unknown"
)

// CheckCredentials probes the backend by listing projects. The returned
// error is the probe's, if any.
func CheckCredentials(ctx context.Context, backend remote.Backend) (CredentialProblem, error) {
	_, err := backend.ListProjects(ctx)
	if err == nil {
		return CredentialsOK, nil
	}
	var rerr *remote.Error
	switch {
	case !errors.As(err, &rerr):
		return CredentialsUnknown, err
	case rerr.Kind == remote.KindAuthentication:
		return CredentialsAuth, err
	case rerr.Kind == remote.KindCommunication:
		return CredentialsConnect, err
	default:
		return CredentialsUnknown, err
	}
}
