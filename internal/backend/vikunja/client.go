// Package vikunja implements remote.Backend against the Vikunja REST API.
package vikunja

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"vtodo/internal/remote"
)

const (
	contentType = "application/json; charset=UTF-8"

	// totalPagesHeader carries the page count of paginated list endpoints.
	totalPagesHeader = "x-pagination-total-pages"
)

// Client implements remote.Backend using the Vikunja API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a client for the API rooted at apiURL (e.g.
// https://vikunja.example.com/api/v1). Requests go through httpClient's
// transport with the API key attached as a bearer token. A nil httpClient
// uses http.DefaultClient.
func New(apiURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	authed := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
			Base:   httpClient.Transport,
		},
		CheckRedirect: httpClient.CheckRedirect,
		Jar:           httpClient.Jar,
	}
	return &Client{
		baseURL: strings.TrimRight(apiURL, "/"),
		http:    authed,
		timeout: remote.RequestTimeout,
	}
}

// SetTimeout overrides the per-request timeout (for testing).
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

type project struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	DueDate     string `json:"due_date"`
}

func (t task) toRemote() remote.Task {
	return remote.Task{
		ID:          strconv.FormatInt(t.ID, 10),
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
		DueDate:     t.DueDate,
	}
}

// ListProjects returns all projects accessible with the API key.
func (c *Client) ListProjects(ctx context.Context) ([]remote.Project, error) {
	var projects []project
	if _, err := c.do(ctx, "list projects", http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	result := make([]remote.Project, 0, len(projects))
	for _, p := range projects {
		result = append(result, remote.Project{
			ID:    strconv.FormatInt(p.ID, 10),
			Title: p.Title,
		})
	}
	return result, nil
}

// ListTasks returns all tasks of a project, following pagination.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]remote.Task, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/tasks"

	var result []remote.Task
	for page := 1; ; page++ {
		p := path
		if page > 1 {
			p += "?page=" + strconv.Itoa(page)
		}

		var batch []task
		header, err := c.do(ctx, "list tasks", http.MethodGet, p, nil, &batch)
		if err != nil {
			return nil, err
		}
		for _, t := range batch {
			result = append(result, t.toRemote())
		}

		total, _ := strconv.Atoi(header.Get(totalPagesHeader))
		if page >= total || len(batch) == 0 {
			break
		}
	}
	if result == nil {
		result = []remote.Task{}
	}
	return result, nil
}

// UpdateTask sets the done flag of a task. projectID is not needed by
// Vikunja, tasks are addressed globally.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, done bool) (remote.Task, error) {
	body := map[string]bool{"done": done}

	var updated task
	if _, err := c.do(ctx, "update task", http.MethodPost, "/tasks/"+url.PathEscape(taskID), body, &updated); err != nil {
		return remote.Task{}, err
	}
	return updated.toRemote(), nil
}

// do performs a single request and decodes the JSON response into out.
// There is exactly one attempt; failures are returned as *remote.Error.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, unexpected(op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, unexpected(op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, remote.Classify(op, err)
	}
	defer resp.Body.Close()

	// Credentials are checked before anything reads the body.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, remote.AuthError(op, resp.StatusCode)
	}
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, remote.Classify(op, err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, remote.Classify(op, err)
		}
	}
	return resp.Header, nil
}

func unexpected(op string, err error) *remote.Error {
	return &remote.Error{Kind: remote.KindGeneric, Op: op, Reason: remote.ReasonUnexpected, Err: err}
}
