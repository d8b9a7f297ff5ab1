package hive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// CreateCase creates a case and returns the created entity.
func (c *Client) CreateCase(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/case", fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCase fetches a single case by id.
func (c *Client) GetCase(ctx context.Context, caseID string) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/v1/case/"+url.PathEscape(caseID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCase applies a partial update to a case.
func (c *Client) UpdateCase(ctx context.Context, caseID string, fields map[string]any) error {
	return c.patch(ctx, "/api/v1/case/"+url.PathEscape(caseID), fields)
}

// DeleteCase deletes a case.
func (c *Client) DeleteCase(ctx context.Context, caseID string) error {
	return c.delete(ctx, "/api/v1/case/"+url.PathEscape(caseID))
}

// FindCases searches cases with optional filter, sort and page mappings.
func (c *Client) FindCases(ctx context.Context, filters, sortby, paginate map[string]any) ([]map[string]any, error) {
	return c.find(ctx, searchStanzas(map[string]any{"_name": "listCase"}, filters, sortby, paginate))
}

// CountCases counts cases matching the optional filter.
func (c *Client) CountCases(ctx context.Context, filters map[string]any) (int64, error) {
	return c.count(ctx, searchStanzas(map[string]any{"_name": "listCase"}, filters, nil, nil))
}

// CloseCase closes a case with a resolution status, summary and impact.
func (c *Client) CloseCase(ctx context.Context, caseID, status, summary, impactStatus string) error {
	fields := map[string]any{
		"status":       status,
		"impactStatus": impactStatus,
	}
	if summary != "" {
		fields["summary"] = summary
	}
	return c.UpdateCase(ctx, caseID, fields)
}

// MergeCases merges the given cases into a new case and returns it.
func (c *Client) MergeCases(ctx context.Context, caseIDs []string) (map[string]any, error) {
	escaped := make([]string, len(caseIDs))
	for i, id := range caseIDs {
		escaped[i] = url.PathEscape(id)
	}
	var out map[string]any
	if err := c.post(ctx, "/api/v1/case/_merge/"+strings.Join(escaped, ","), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCaseObservable adds an observable to a case. The platform returns
// one entity per created value (a list-valued "data" creates several).
func (c *Client) CreateCaseObservable(ctx context.Context, caseID string, observable map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.post(ctx, "/api/v1/case/"+url.PathEscape(caseID)+"/observable", observable, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCaseObservables lists the observables attached to a case.
func (c *Client) FindCaseObservables(ctx context.Context, caseID string, limit int) ([]map[string]any, error) {
	query := childQuery("getCase", caseID, "observables")
	if limit > 0 {
		query = append(query, map[string]any{"_name": "page", "from": 0, "to": limit})
	}
	return c.find(ctx, query)
}

// GetCaseSimilarObservables returns observables shared between a case and
// another case or alert.
func (c *Client) GetCaseSimilarObservables(ctx context.Context, caseID, otherID string) ([]map[string]any, error) {
	return c.find(ctx, []map[string]any{
		{"_name": "getCase", "idOrName": caseID},
		{"_name": "similar", "caseOrAlertId": otherID},
	})
}

// FindCaseComments lists the comments on a case.
func (c *Client) FindCaseComments(ctx context.Context, caseID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getCase", caseID, "comments"))
}

// CreateCaseTask creates a task inside a case.
func (c *Client) CreateCaseTask(ctx context.Context, caseID string, task map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/case/"+url.PathEscape(caseID)+"/task", task, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCaseTasks lists the tasks of a case.
func (c *Client) FindCaseTasks(ctx context.Context, caseID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getCase", caseID, "tasks"))
}

// CreateCaseProcedure attaches a TTP procedure to a case.
func (c *Client) CreateCaseProcedure(ctx context.Context, caseID string, procedure map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/case/"+url.PathEscape(caseID)+"/procedure", procedure, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCaseProcedures lists the procedures of a case.
func (c *Client) FindCaseProcedures(ctx context.Context, caseID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getCase", caseID, "procedures"))
}

// AddCaseAttachment uploads local files as case attachments.
func (c *Client) AddCaseAttachment(ctx context.Context, caseID string, paths []string, canRename bool) ([]map[string]any, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("hive: open attachment: %w", err)
		}
		part, err := writer.CreateFormFile("attachments", filepath.Base(p))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("hive: write attachment %s: %w", p, err)
		}
	}
	if err := writer.WriteField("canRename", fmt.Sprintf("%t", canRename)); err != nil {
		return nil, fmt.Errorf("hive: write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("hive: close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/case/"+url.PathEscape(caseID)+"/attachments",
		strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("hive: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hive: upload attachments: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hive: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFromResponse(resp.StatusCode, data)
	}

	var out struct {
		Attachments []map[string]any `json:"attachments"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("hive: decode response: %w", err)
	}
	return out.Attachments, nil
}

// DeleteCaseAttachment removes an attachment from a case.
func (c *Client) DeleteCaseAttachment(ctx context.Context, caseID, attachmentID string) error {
	return c.delete(ctx, "/api/v1/case/"+url.PathEscape(caseID)+"/attachment/"+url.PathEscape(attachmentID))
}

// DownloadCaseAttachment streams an attachment to a local file.
func (c *Client) DownloadCaseAttachment(ctx context.Context, caseID, attachmentID, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/case/"+url.PathEscape(caseID)+"/attachment/"+url.PathEscape(attachmentID)+"/download", nil)
	if err != nil {
		return fmt.Errorf("hive: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hive: download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return apiErrorFromResponse(resp.StatusCode, data)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("hive: create %s: %w", destPath, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("hive: write %s: %w", destPath, err)
	}
	return nil
}

// FindCaseAttachments lists the attachments of a case.
func (c *Client) FindCaseAttachments(ctx context.Context, caseID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getCase", caseID, "attachments"))
}

// CreateCasePage creates a knowledge page inside a case.
func (c *Client) CreateCasePage(ctx context.Context, caseID string, page map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.post(ctx, "/api/v1/case/"+url.PathEscape(caseID)+"/page", page, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCasePages lists the pages of a case.
func (c *Client) FindCasePages(ctx context.Context, caseID string) ([]map[string]any, error) {
	return c.find(ctx, childQuery("getCase", caseID, "pages"))
}
