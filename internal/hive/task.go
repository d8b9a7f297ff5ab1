package hive

import (
	"context"
	"net/url"
)

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, taskID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/v1/task/"+url.PathEscape(taskID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, fields map[string]any) error {
	return c.patch(ctx, "/api/v1/task/"+url.PathEscape(taskID), fields)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.delete(ctx, "/api/v1/task/"+url.PathEscape(taskID))
}

// FindTasks searches tasks with optional filter, sort and page mappings.
func (c *Client) FindTasks(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	return c.find(ctx, searchStanzas(map[string]any{"_name": "listTask"}, filters, sortby, paginate))
}

// CountTasks counts tasks matching the optional filter.
func (c *Client) CountTasks(ctx context.Context, filters map[string]any) (int64, error) {
	return c.count(ctx, searchStanzas(map[string]any{"_name": "listTask"}, filters, nil, nil))
}

// CreateTaskLog appends a log entry to a task.
func (c *Client) CreateTaskLog(ctx context.Context, taskID string, log map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/task/"+url.PathEscape(taskID)+"/log", log, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindTaskLogs lists the log entries of a task.
func (c *Client) FindTaskLogs(ctx context.Context, taskID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getTask", taskID, "logs"))
}
