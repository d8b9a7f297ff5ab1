package hive

import (
	"context"
	"net/http"
	"net/url"
)

// The Cortex connector predates the v1 API and lives under its own prefix.

// ListAnalyzers lists the analyzers available through connected Cortex
// instances. rangeSpec is an optional pagination range such as "0-49".
func (c *Client) ListAnalyzers(ctx context.Context, rangeSpec string) ([]map[string]any, error) {
	path := "/api/connector/cortex/analyzer"
	if rangeSpec != "" {
		path += "?range=" + url.QueryEscape(rangeSpec)
	}
	var out []map[string]any
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAnalyzersByType lists analyzers that accept the given observable
// data type.
func (c *Client) ListAnalyzersByType(ctx context.Context, dataType string) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, "/api/connector/cortex/analyzer/type/"+url.PathEscape(dataType), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAnalyzer fetches a single analyzer by id.
func (c *Client) GetAnalyzer(ctx context.Context, analyzerID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/connector/cortex/analyzer/"+url.PathEscape(analyzerID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAnalyzerJob submits an analyzer job for an observable.
func (c *Client) CreateAnalyzerJob(ctx context.Context, job map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/connector/cortex/job", job, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAnalyzerJob fetches an analyzer job with its report.
func (c *Client) GetAnalyzerJob(ctx context.Context, jobID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/connector/cortex/job/"+url.PathEscape(jobID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResponders lists the responders applicable to an entity.
func (c *Client) ListResponders(ctx context.Context, entityType, entityID string) ([]map[string]any, error) {
	var out []map[string]any
	path := "/api/connector/cortex/responder/" + url.PathEscape(entityType) + "/" + url.PathEscape(entityID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateResponderAction executes a responder action on an entity.
func (c *Client) CreateResponderAction(ctx context.Context, action map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/api/connector/cortex/action", action, &out); err != nil {
		return nil, err
	}
	return out, nil
}
