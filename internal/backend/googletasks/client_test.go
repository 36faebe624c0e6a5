package googletasks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"vtodo/internal/config"
	"vtodo/internal/remote"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestListProjects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/v1/users/@me/lists", r.URL.Path)
		io.WriteString(w, `{"items":[{"id":"L1","title":"Groceries"},{"id":"L2","title":"Work"}]}`)
	})

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Equal(t, []remote.Project{{ID: "L1", Title: "Groceries"}, {ID: "L2", Title: "Work"}}, projects)
}

func TestListTasks_FlattensAndOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/v1/lists/L1/tasks", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("showCompleted"))
		io.WriteString(w, `{"items":[
			{"id":"b","title":"Second","position":"00000000000000000002","status":"completed"},
			{"id":"child","title":"Sub","parent":"a","position":"00000000000000000000","status":"needsAction"},
			{"id":"a","title":"First","notes":"2%","position":"00000000000000000001","status":"needsAction","due":"2026-05-01T00:00:00.000Z"}
		]}`)
	})

	got, err := c.ListTasks(context.Background(), "L1")
	require.NoError(t, err)
	require.Equal(t, []remote.Task{
		{ID: "a", Title: "First", Description: "2%", DueDate: "2026-05-01T00:00:00.000Z"},
		{ID: "b", Title: "Second", Done: true},
	}, got)
}

func TestUpdateTask(t *testing.T) {
	tests := []struct {
		done       bool
		wantStatus string
	}{
		{true, "completed"},
		{false, "needsAction"},
	}
	for _, tt := range tests {
		t.Run(tt.wantStatus, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "/tasks/v1/lists/L1/tasks/a", r.URL.Path)
				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantStatus, body["status"])
				json.NewEncoder(w).Encode(map[string]any{"id": "a", "title": "First", "status": tt.wantStatus})
			})

			updated, err := c.UpdateTask(context.Background(), "L1", "a", tt.done)
			require.NoError(t, err)
			require.Equal(t, tt.done, updated.Done)
		})
	}
}

func TestErrorsAreClassified(t *testing.T) {
	tests := []struct {
		status int
		kind   remote.Kind
	}{
		{http.StatusUnauthorized, remote.KindAuthentication},
		{http.StatusForbidden, remote.KindAuthentication},
		{http.StatusNotFound, remote.KindCommunication},
		{http.StatusBadGateway, remote.KindCommunication},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.ListTasks(context.Background(), "L1")
			kind, ok := remote.KindOf(err)
			require.True(t, ok, "expected *remote.Error, got %v", err)
			require.Equal(t, tt.kind, kind)
		})
	}
}

func TestNew_MissingFiles(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, config.OAuthClientFile)

	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(cfg.OAuthClientPath(), []byte(oauthClient), 0600))

	_, err = New(context.Background(), cfg)
	require.ErrorContains(t, err, config.TokenFile)
}
