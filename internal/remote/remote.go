// Package remote defines the backend-agnostic model of a remote task service.
package remote

import (
	"context"
	"time"
)

// RequestTimeout caps every call to a remote backend.
const RequestTimeout = 10 * time.Second

// Project is a remote grouping of tasks. It is surfaced as one to-do list.
type Project struct {
	ID    string
	Title string
}

// Task is the remote representation of a unit of work.
type Task struct {
	ID          string
	Title       string
	Description string
	Done        bool
	DueDate     string // raw remote timestamp; empty when unset
}

// Backend defines the operations the bridge needs from a remote task service.
// Implementations never retry; every failure is returned as a *Error.
type Backend interface {
	// ListProjects returns all projects visible to the credential.
	ListProjects(ctx context.Context) ([]Project, error)

	// ListTasks returns every task in a project, in remote order.
	ListTasks(ctx context.Context, projectID string) ([]Task, error)

	// UpdateTask sets the completion flag of a task and returns the updated record.
	UpdateTask(ctx context.Context, projectID, taskID string, done bool) (Task, error)
}
