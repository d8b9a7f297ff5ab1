package hive

import (
	"context"
	"net/url"
)

// GetObservable fetches a single observable by id.
func (c *Client) GetObservable(ctx context.Context, observableID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/v1/observable/"+url.PathEscape(observableID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateObservable applies a partial update to an observable.
func (c *Client) UpdateObservable(ctx context.Context, observableID string, fields map[string]any) error {
	return c.patch(ctx, "/api/v1/observable/"+url.PathEscape(observableID), fields)
}

// DeleteObservable deletes an observable.
func (c *Client) DeleteObservable(ctx context.Context, observableID string) error {
	return c.delete(ctx, "/api/v1/observable/"+url.PathEscape(observableID))
}

// FindObservables searches observables with optional filter, sort and page
// mappings.
func (c *Client) FindObservables(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	return c.find(ctx, searchStanzas(map[string]any{"_name": "listObservable"}, filters, sortby, paginate))
}

// CountObservables counts observables matching the optional filter.
func (c *Client) CountObservables(ctx context.Context, filters map[string]any) (int64, error) {
	return c.count(ctx, searchStanzas(map[string]any{"_name": "listObservable"}, filters, nil, nil))
}

// ShareObservable shares an observable with the given organisations.
func (c *Client) ShareObservable(ctx context.Context, observableID string, organisations []string) error {
	body := map[string]any{"organisations": organisations}
	return c.post(ctx, "/api/v1/observable/"+url.PathEscape(observableID)+"/shares", body, nil)
}

// UnshareObservable revokes an observable share from the given organisations.
func (c *Client) UnshareObservable(ctx context.Context, observableID string, organisations []string) error {
	body := map[string]any{"organisations": organisations}
	return c.post(ctx, "/api/v1/observable/"+url.PathEscape(observableID)+"/unshare", body, nil)
}
