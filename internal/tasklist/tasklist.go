// Package tasklist exposes one coordinator's cached tasks as a to-do list.
package tasklist

import (
	"context"
	"errors"
	"fmt"

	"vtodo/internal/coordinator"
	"vtodo/internal/remote"
	"vtodo/internal/slogger"
	"vtodo/internal/todo"
)

// ErrMissingUID is returned by UpdateItem for an item without a UID.
var ErrMissingUID = errors.New("item has no uid")

// TaskList binds a project and its coordinator to the todo.List surface.
// Reads are served from the coordinator's snapshot; the single write path
// updates the remote task and then refreshes the whole project.
type TaskList struct {
	project  remote.Project
	uniqueID string
	name     string
	coord    *coordinator.Coordinator
	backend  remote.Backend
	logger   slogger.Logger
}

var _ todo.List = (*TaskList)(nil)

// Option configures a TaskList.
type Option func(*TaskList)

// WithLogger sets the logger.
func WithLogger(l slogger.Logger) Option {
	return func(tl *TaskList) { tl.logger = slogger.OrDevNull(l) }
}

// New creates the list for project within the integration instance entryID.
func New(entryID string, project remote.Project, coord *coordinator.Coordinator, backend remote.Backend, opts ...Option) *TaskList {
	l := &TaskList{
		project:  project,
		uniqueID: fmt.Sprintf("%s-%s", entryID, project.ID),
		name:     Capitalize(project.Title),
		coord:    coord,
		backend:  backend,
		logger:   slogger.NewDevNullLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("list", l.name)
	return l
}

func (l *TaskList) Name() string                    { return l.name }
func (l *TaskList) UniqueID() string                { return l.uniqueID }
func (l *TaskList) SupportedFeatures() todo.Feature { return todo.FeatureUpdateItem }
func (l *TaskList) Available() bool                 { return l.coord.LastUpdateSuccess() }

// Project returns the remote project behind the list.
func (l *TaskList) Project() remote.Project { return l.project }

// Coordinator returns the coordinator feeding the list.
func (l *TaskList) Coordinator() *coordinator.Coordinator { return l.coord }

// Items maps the coordinator's snapshot to to-do items.
func (l *TaskList) Items() ([]todo.Item, bool) {
	tasks, ok := l.coord.Data()
	if !ok {
		return nil, false
	}
	return ItemsFromTasks(tasks), true
}

// UpdateItem pushes the item's completion status to the remote service and
// then refreshes the project, so the next read shows the server's state.
// Only the status is written; a failed refresh is logged, not returned.
func (l *TaskList) UpdateItem(ctx context.Context, item todo.Item) error {
	if item.UID == "" {
		return ErrMissingUID
	}
	done := item.Status == todo.StatusCompleted
	if _, err := l.backend.UpdateTask(ctx, l.project.ID, item.UID, done); err != nil {
		return err
	}
	l.logger.Debug("item updated", "uid", item.UID, "done", done)

	if err := l.coord.Refresh(ctx); err != nil {
		l.logger.Warn("refresh after update failed", "error", err)
	}
	return nil
}
