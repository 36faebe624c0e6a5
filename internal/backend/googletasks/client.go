// Package googletasks implements remote.Backend using the Google Tasks API.
// Task lists are exposed as projects.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"vtodo/internal/config"
	"vtodo/internal/remote"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements remote.Backend using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oauthConfig, nil
}

// New creates a Google Tasks client from oauth_client.json and token.json.
// The token source refreshes the access token as needed.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TokenFile, err)
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client. Extra
// options (such as option.WithEndpoint) are passed to the service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListProjects returns all task lists in API order.
func (c *Client) ListProjects(ctx context.Context) ([]remote.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, remote.RequestTimeout)
	defer cancel()

	result := []remote.Project{}
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, remote.Project{ID: list.Id, Title: list.Title})
		}
		return nil
	})
	if err != nil {
		return nil, remote.Classify("list projects", err)
	}
	return result, nil
}

// ListTasks returns the top-level tasks of a list, completed ones included,
// ordered by position. Subtasks are dropped since to-do lists are flat.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]remote.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, remote.RequestTimeout)
	defer cancel()

	var items []*tasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Parent == "" {
					items = append(items, t)
				}
			}
			return nil
		})
	if err != nil {
		return nil, remote.Classify("list tasks", err)
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	result := make([]remote.Task, 0, len(items))
	for _, t := range items {
		result = append(result, toRemote(t))
	}
	return result, nil
}

// UpdateTask marks a task completed or reopens it.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, done bool) (remote.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, remote.RequestTimeout)
	defer cancel()

	patch := &tasks.Task{Status: statusNeedsAction, NullFields: []string{"Completed"}}
	if done {
		patch = &tasks.Task{Status: statusCompleted}
	}

	updated, err := c.svc.Tasks.Patch(listID, taskID, patch).Context(ctx).Do()
	if err != nil {
		return remote.Task{}, remote.Classify("update task", err)
	}
	return toRemote(updated), nil
}

func toRemote(t *tasks.Task) remote.Task {
	return remote.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Done:        t.Status == statusCompleted,
		DueDate:     t.Due,
	}
}
