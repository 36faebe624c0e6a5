// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"vtodo/internal/remote"
)

// Call records one backend invocation.
type Call struct {
	Method    string // "ListProjects", "ListTasks" or "UpdateTask"
	ProjectID string
	TaskID    string
	Done      bool
}

// FakeBackend is an in-memory implementation of remote.Backend for testing.
type FakeBackend struct {
	mu       sync.Mutex
	projects []remote.Project
	tasks    map[string][]remote.Task // projectID -> tasks
	calls    []Call

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	// Error injection for testing
	ListProjectsErr error
	ListTasksErr    map[string]error // projectID -> error
	UpdateTaskErr   error

	// ListTasksHook, if set, runs during every ListTasks call after the
	// result has been captured. Tests use it to hold a fetch in flight.
	ListTasksHook func(ctx context.Context, projectID string)
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		tasks:        make(map[string][]remote.Task),
		ListTasksErr: make(map[string]error),
	}
}

// AddProject adds a project.
func (f *FakeBackend) AddProject(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, remote.Project{ID: id, Title: title})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = []remote.Task{}
	}
}

// AddTask appends a task to a project.
func (f *FakeBackend) AddTask(projectID string, task remote.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[projectID] = append(f.tasks[projectID], task)
}

// SetListTasksErr injects (or clears, with nil) a ListTasks failure.
func (f *FakeBackend) SetListTasksErr(projectID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.ListTasksErr, projectID)
		return
	}
	f.ListTasksErr[projectID] = err
}

// Calls returns a copy of the recorded calls.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times method was invoked.
func (f *FakeBackend) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// MaxConcurrentListTasks returns the highest number of ListTasks calls
// observed running at the same time.
func (f *FakeBackend) MaxConcurrentListTasks() int {
	return int(f.maxInFlight.Load())
}

func (f *FakeBackend) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// ListProjects implements remote.Backend.
func (f *FakeBackend) ListProjects(ctx context.Context) ([]remote.Project, error) {
	f.record(Call{Method: "ListProjects"})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	return append([]remote.Project{}, f.projects...), nil
}

// ListTasks implements remote.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context, projectID string) ([]remote.Task, error) {
	f.record(Call{Method: "ListTasks", ProjectID: projectID})

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	// The result is fixed before the hook runs, like a response already
	// on the wire.
	f.mu.Lock()
	hook := f.ListTasksHook
	err := f.ListTasksErr[projectID]
	tasks, ok := f.tasks[projectID]
	tasks = append([]remote.Task{}, tasks...)
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, projectID)
	}

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("list tasks")
	}
	return tasks, nil
}

// UpdateTask implements remote.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, projectID, taskID string, done bool) (remote.Task, error) {
	f.record(Call{Method: "UpdateTask", ProjectID: projectID, TaskID: taskID, Done: done})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateTaskErr != nil {
		return remote.Task{}, f.UpdateTaskErr
	}
	for i, t := range f.tasks[projectID] {
		if t.ID == taskID {
			f.tasks[projectID][i].Done = done
			return f.tasks[projectID][i], nil
		}
	}
	return remote.Task{}, notFound("update task")
}

func notFound(op string) *remote.Error {
	return &remote.Error{
		Kind:   remote.KindCommunication,
		Op:     op,
		Reason: "status 404",
		Err:    fmt.Errorf("not found"),
	}
}
