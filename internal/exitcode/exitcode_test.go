package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"vtodo/internal/bridge"
	"vtodo/internal/config"
	"vtodo/internal/remote"
	"vtodo/internal/todo"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, Success},
		{fmt.Errorf("%w: %w", bridge.ErrReauthRequired, errors.New("x")), AuthError},
		{fmt.Errorf("vikunja: %w", config.ErrMissingCredentials), AuthError},
		{remote.AuthError("update task", 401), AuthError},
		{fmt.Errorf("%w: Home", todo.ErrNotFound), UserError},
		{fmt.Errorf("%w: h", todo.ErrAmbiguous), UserError},
		{fmt.Errorf("%w: down", bridge.ErrNotReady), BackendError},
		{&remote.Error{Kind: remote.KindCommunication, Reason: remote.ReasonTimeout}, BackendError},
		{errors.New("boom"), BackendError},
	}
	for _, tt := range tests {
		if got := FromError(tt.err); got != tt.want {
			t.Errorf("FromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
