package hive

import (
	"context"
	"net/url"
)

// CreateAlert creates an alert and returns the created entity.
func (c *Client) CreateAlert(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/alert", fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAlert fetches a single alert by id.
func (c *Client) GetAlert(ctx context.Context, alertID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/v1/alert/"+url.PathEscape(alertID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAlert applies a partial update to an alert.
func (c *Client) UpdateAlert(ctx context.Context, alertID string, fields map[string]any) error {
	return c.patch(ctx, "/api/v1/alert/"+url.PathEscape(alertID), fields)
}

// DeleteAlert deletes an alert.
func (c *Client) DeleteAlert(ctx context.Context, alertID string) error {
	return c.delete(ctx, "/api/v1/alert/"+url.PathEscape(alertID))
}

// FindAlerts searches alerts with optional filter, sort and page mappings.
func (c *Client) FindAlerts(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	return c.find(ctx, searchStanzas(map[string]any{"_name": "listAlert"}, filters, sortby, paginate))
}

// CountAlerts counts alerts matching the optional filter.
func (c *Client) CountAlerts(ctx context.Context, filters map[string]any) (int64, error) {
	return c.count(ctx, searchStanzas(map[string]any{"_name": "listAlert"}, filters, nil, nil))
}

// FollowAlert re-enables update tracking for an alert.
func (c *Client) FollowAlert(ctx context.Context, alertID string) error {
	return c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/follow", nil, nil)
}

// UnfollowAlert disables update tracking for an alert.
func (c *Client) UnfollowAlert(ctx context.Context, alertID string) error {
	return c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/unfollow", nil, nil)
}

// PromoteAlertToCase promotes an alert into a new case.
func (c *Client) PromoteAlertToCase(ctx context.Context, alertID string, fields map[string]any) (map[string]any, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	var out map[string]any
	if err := c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/case", fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeAlertIntoCase merges an alert into an existing case and returns the
// updated case.
func (c *Client) MergeAlertIntoCase(ctx context.Context, alertID, caseID string) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/merge/"+url.PathEscape(caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportAlertIntoCase imports an alert's observables into a case.
func (c *Client) ImportAlertIntoCase(ctx context.Context, alertID, caseID string) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/import/"+url.PathEscape(caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAlertObservable adds an observable to an alert.
func (c *Client) CreateAlertObservable(ctx context.Context, alertID string, observable map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.post(ctx, "/api/v1/alert/"+url.PathEscape(alertID)+"/observable", observable, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindAlertObservables lists the observables attached to an alert.
func (c *Client) FindAlertObservables(ctx context.Context, alertID string, limit int) ([]map[string]any, error) {
	query := childQuery("getAlert", alertID, "observables")
	if limit > 0 {
		query = append(query, map[string]any{"_name": "page", "from": 0, "to": limit})
	}
	return c.find(ctx, query)
}

// GetAlertSimilarObservables returns observables shared between an alert
// and another case or alert.
func (c *Client) GetAlertSimilarObservables(ctx context.Context, alertID, otherID string) ([]map[string]any, error) {
	return c.find(ctx, []map[string]any{
		{"_name": "getAlert", "idOrName": alertID},
		{"_name": "similar", "caseOrAlertId": otherID},
	})
}
