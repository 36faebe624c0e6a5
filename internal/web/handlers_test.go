package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"vtodo/internal/bridge"
	"vtodo/internal/coordinator"
	"vtodo/internal/remote"
	"vtodo/internal/tasklist"
	"vtodo/internal/testutil"
	"vtodo/internal/todo"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *testutil.FakeBackend, *todo.Registry) {
	t.Helper()
	b := testutil.NewFakeBackend()
	b.AddProject("1", "home")
	b.AddTask("1", remote.Task{ID: "10", Title: "Buy milk", Description: "2%"})
	b.AddTask("1", remote.Task{ID: "11", Title: "Pay rent", Done: true, DueDate: "2026-05-01T00:00:00Z"})

	host := todo.NewRegistry()
	e, err := bridge.Setup(context.Background(), "entry", b, bridge.Options{Host: host})
	require.NoError(t, err)
	t.Cleanup(e.Unload)
	return NewServer(host, nil), b, host
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w, resp := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["ok"])
	require.Equal(t, float64(1), resp["lists"])
}

func TestHandleLists(t *testing.T) {
	s, _, _ := newTestServer(t)
	w, resp := do(t, s, http.MethodGet, "/api/lists", "")
	require.Equal(t, http.StatusOK, w.Code)

	lists := resp["lists"].([]any)
	require.Len(t, lists, 1)
	first := lists[0].(map[string]any)
	require.Equal(t, "entry-1", first["uid"])
	require.Equal(t, "Home", first["name"])
	require.Equal(t, true, first["available"])
	require.Equal(t, float64(2), first["items"])
}

func TestHandleItems(t *testing.T) {
	s, _, _ := newTestServer(t)
	w, resp := do(t, s, http.MethodGet, "/api/lists/entry-1/items", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := resp["items"].([]any)
	require.Len(t, items, 2)
	milk := items[0].(map[string]any)
	require.Equal(t, "10", milk["uid"])
	require.Equal(t, "needs_action", milk["status"])
	require.Equal(t, "2%", milk["description"])
	require.NotContains(t, milk, "due")
	rent := items[1].(map[string]any)
	require.Equal(t, "completed", rent["status"])
	require.Equal(t, "2026-05-01T00:00:00Z", rent["due"])
}

func TestHandleItems_UnknownList(t *testing.T) {
	s, _, _ := newTestServer(t)
	w, _ := do(t, s, http.MethodGet, "/api/lists/nope/items", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleItems_NoDataYet(t *testing.T) {
	b := testutil.NewFakeBackend()
	b.AddProject("1", "Home")
	project := remote.Project{ID: "1", Title: "Home"}
	host := todo.NewRegistry()
	require.NoError(t, host.Register(tasklist.New("entry", project, coordinator.New(b, "1"), b)))

	w, _ := do(t, NewServer(host, nil), http.MethodGet, "/api/lists/entry-1/items", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleUpdateItem(t *testing.T) {
	s, b, _ := newTestServer(t)
	w, resp := do(t, s, http.MethodPatch, "/api/lists/entry-1/items/10", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "completed", resp["status"])
	require.Equal(t, "Buy milk", resp["summary"])

	calls := b.Calls()
	require.Equal(t, testutil.Call{Method: "UpdateTask", ProjectID: "1", TaskID: "10", Done: true}, calls[len(calls)-2])
	require.Equal(t, "ListTasks", calls[len(calls)-1].Method)
}

func TestHandleUpdateItem_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		inject error
		want   int
	}{
		{"unknown list", "/api/lists/nope/items/10", `{"status":"completed"}`, nil, http.StatusNotFound},
		{"unknown item", "/api/lists/entry-1/items/99", `{"status":"completed"}`, nil, http.StatusNotFound},
		{"missing status", "/api/lists/entry-1/items/10", `{}`, nil, http.StatusBadRequest},
		{"bad status", "/api/lists/entry-1/items/10", `{"status":"archived"}`, nil, http.StatusBadRequest},
		{"rejected credential", "/api/lists/entry-1/items/10", `{"status":"completed"}`, remote.AuthError("update task", 401), http.StatusUnauthorized},
		{"remote failure", "/api/lists/entry-1/items/10", `{"status":"completed"}`, &remote.Error{Kind: remote.KindCommunication, Op: "update task", Reason: remote.ReasonTimeout}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b, _ := newTestServer(t)
			if tt.inject != nil {
				b.UpdateTaskErr = tt.inject
			}
			w, resp := do(t, s, http.MethodPatch, tt.path, tt.body)
			require.Equal(t, tt.want, w.Code)
			require.NotEmpty(t, resp["error"])
		})
	}
}
