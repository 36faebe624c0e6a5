package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"google.golang.org/api/googleapi"
)

// Kind classifies a backend failure.
type Kind int

const (
	// KindGeneric is an unanticipated failure.
	KindGeneric Kind = iota

	// KindCommunication covers timeouts, network failures and non-2xx responses.
	KindCommunication

	// KindAuthentication means the remote rejected the credential (401/403).
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindCommunication:
		return "communication"
	case KindAuthentication:
		return "authentication"
	default:
		return "generic"
	}
}

// Failure reasons carried by Error.
const (
	ReasonInvalidCredentials = "invalid credentials"
	ReasonTimeout            = "timeout"
	ReasonNetwork            = "network"
	ReasonCanceled           = "canceled"
	ReasonUnexpected         = "unexpected"
)

// Error is returned by every Backend operation.
type Error struct {
	Kind   Kind
	Op     string // e.g. "list tasks"
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s error: %s: %v", e.Op, e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return KindGeneric, false
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindAuthentication
}

// AuthError builds the error for a rejected credential.
func AuthError(op string, status int) *Error {
	return &Error{
		Kind:   KindAuthentication,
		Op:     op,
		Reason: ReasonInvalidCredentials,
		Err:    fmt.Errorf("http status %d", status),
	}
}

// Classify converts a transport or API failure into an *Error. The first
// matching rule wins: rejected credential, timeout, network failure, other
// HTTP status, anything else.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var rerr *Error
	if errors.As(err, &rerr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return &Error{Kind: KindAuthentication, Op: op, Reason: ReasonInvalidCredentials, Err: err}
		}
		return &Error{Kind: KindCommunication, Op: op, Reason: fmt.Sprintf("status %d", apiErr.Code), Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindCommunication, Op: op, Reason: ReasonTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindCommunication, Op: op, Reason: ReasonTimeout, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCommunication, Op: op, Reason: ReasonCanceled, Err: err}
	}

	var (
		dnsErr *net.DNSError
		opErr  *net.OpError
		urlErr *url.Error
	)
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) || errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return &Error{Kind: KindCommunication, Op: op, Reason: ReasonNetwork, Err: err}
	}

	return &Error{Kind: KindGeneric, Op: op, Reason: ReasonUnexpected, Err: err}
}
