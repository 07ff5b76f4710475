package codevf

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateTask submits a new review task via POST /tasks and returns the task
// as accepted by the service, typically in a pending status.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*Task, error) {
	var task Task
	if err := c.doJSON(ctx, http.MethodPost, "/tasks", req, &task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		return nil, fmt.Errorf("codevf: create task: response missing task id")
	}
	return &task, nil
}

// GetTask retrieves the current state of a task via GET /tasks/{id}.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	if id == "" {
		return nil, fmt.Errorf("codevf: get task: empty task id")
	}

	var task Task
	if err := c.doJSON(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
