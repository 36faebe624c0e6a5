package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		reason string
	}{
		{"unauthorized", &googleapi.Error{Code: 401}, KindAuthentication, ReasonInvalidCredentials},
		{"forbidden", &googleapi.Error{Code: 403}, KindAuthentication, ReasonInvalidCredentials},
		{"server error", &googleapi.Error{Code: 500}, KindCommunication, "status 500"},
		{"not found", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 404}), KindCommunication, "status 404"},
		{"deadline", &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}, KindCommunication, ReasonTimeout},
		{"net timeout", timeoutErr{}, KindCommunication, ReasonTimeout},
		{"canceled", context.Canceled, KindCommunication, ReasonCanceled},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, KindCommunication, ReasonNetwork},
		{"refused", &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}, KindCommunication, ReasonNetwork},
		{"other", errors.New("boom"), KindGeneric, ReasonUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("list tasks", tt.err)
			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, tt.kind, rerr.Kind)
			require.Equal(t, tt.reason, rerr.Reason)
			require.Equal(t, "list tasks", rerr.Op)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	require.NoError(t, Classify("op", nil))
}

func TestClassify_KeepsExistingError(t *testing.T) {
	orig := AuthError("list projects", 401)
	require.Same(t, orig, Classify("other op", orig))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf(fmt.Errorf("setup: %w", AuthError("list projects", 403)))
	require.True(t, ok)
	require.Equal(t, KindAuthentication, k)
	require.True(t, IsAuth(AuthError("x", 401)))

	_, ok = KindOf(errors.New("plain"))
	require.False(t, ok)
	require.False(t, IsAuth(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindCommunication, Op: "update task", Reason: ReasonTimeout}
	require.Equal(t, "update task: communication error: timeout", err.Error())
	require.Equal(t, "authentication", KindAuthentication.String())
}
