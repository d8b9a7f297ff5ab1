package tools

import (
	"context"

	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// CaseDefinitions returns the case module tools.
func CaseDefinitions(c *hive.Client, bulkWorkers int) []registry.Definition {
	return []registry.Definition{
		{
			Name:        "create_case",
			Title:       "Create Case",
			Description: "Create a new case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "title", Type: registry.String, Required: true, Description: "Case title"},
				{Name: "description", Type: registry.String, Default: "", Description: "Case description"},
				{Name: "severity", Type: registry.Integer, Enum: severityLevels, Description: "Case severity (1-4)"},
				{Name: "tags", Type: registry.Strings, Description: "Case tags"},
				{Name: "customFields", Type: registry.Object, Description: "Custom fields"},
				{Name: "flag", Type: registry.Boolean, Description: "Flag status"},
				{Name: "tlp", Type: registry.Integer, Enum: tlpLevels, Description: "Traffic Light Protocol level"},
				{Name: "pap", Type: registry.Integer, Enum: papLevels, Description: "Permissible Actions Protocol level"},
				{Name: "startDate", Type: registry.Timestamp, Description: "Start date, epoch millis or RFC3339"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := pick(args, "title", "description", "severity", "tags",
					"customFields", "flag", "tlp", "pap", "startDate")
				return c.CreateCase(ctx, fields)
			},
		},
		{
			Name:        "get_cases",
			Title:       "Get Cases",
			Description: "Get all cases with optional filtering and pagination.",
			Module:      ModuleCase,
			Fields:      searchFields(),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCases(ctx, args.Map("filters"), args.Map("sortby"), args.Map("paginate"))
			},
		},
		{
			Name:        "get_case",
			Title:       "Get Case",
			Description: "Get a single case by ID.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The unique identifier of the case"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetCase(ctx, args.String("case_id"))
			},
		},
		{
			Name:        "update_case",
			Title:       "Update Case",
			Description: "Update a case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID to update"},
				{Name: "fields", Type: registry.Object, Required: true, Description: "Fields to update", Properties: []registry.Field{
					{Name: "title", Type: registry.String, Description: "Case title"},
					{Name: "description", Type: registry.String, Description: "Case description"},
					{Name: "severity", Type: registry.Integer, Enum: severityLevels, Description: "Case severity (1-4)"},
					{Name: "tags", Type: registry.Strings, Description: "Case tags"},
					{Name: "status", Type: registry.String, Description: "Case status"},
					{Name: "summary", Type: registry.String, Description: "Case summary"},
					{Name: "assignee", Type: registry.String, Description: "Assigned user"},
					{Name: "startDate", Type: registry.Timestamp, Description: "Start date"},
					{Name: "endDate", Type: registry.Timestamp, Description: "End date"},
				}},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				caseID := args.String("case_id")
				if err := c.UpdateCase(ctx, caseID, args.Map("fields")); err != nil {
					return nil, err
				}
				return message("case %s updated", caseID), nil
			},
		},
		{
			Name:        "delete_case",
			Title:       "Delete Case",
			Description: "Delete a case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The unique identifier of the case to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				caseID := args.String("case_id")
				if err := c.DeleteCase(ctx, caseID); err != nil {
					return nil, err
				}
				return message("case %s deleted", caseID), nil
			},
		},
		{
			Name:        "bulk_update_cases",
			Title:       "Bulk Update Cases",
			Description: "Update multiple cases. Each case is updated independently; per-case outcomes are reported.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_ids", Type: registry.Strings, Required: true, Description: "List of case IDs"},
				{Name: "title", Type: registry.String, Description: "Title to apply"},
				{Name: "description", Type: registry.String, Description: "Description to apply"},
				{Name: "severity", Type: registry.Integer, Enum: severityLevels, Description: "Severity to apply"},
				{Name: "tags", Type: registry.Strings, Description: "Tags to apply"},
				{Name: "status", Type: registry.String, Description: "Status to apply"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := pick(args, "title", "description", "severity", "tags", "status")
				res := bulk.Execute(ctx, args.Strings("case_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.UpdateCase(ctx, id, fields)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "count_cases",
			Title:       "Count Cases",
			Description: "Count cases matching given filters.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "filters", Type: registry.Object, Description: "Filter criteria in the platform query format"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				n, err := c.CountCases(ctx, args.Map("filters"))
				if err != nil {
					return nil, err
				}
				return countPayload(n), nil
			},
		},
		{
			Name:        "close_case",
			Title:       "Close Case",
			Description: "Close a case with a resolution status.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The ID of the case to close"},
				{Name: "status", Type: registry.String, Required: true, Enum: closeStatuses, Description: "Resolution status"},
				{Name: "summary", Type: registry.String, Description: "Closure summary"},
				{Name: "impact_status", Type: registry.String, Enum: impactStatuses, Default: "NotApplicable", Description: "Impact status for closure"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				caseID := args.String("case_id")
				err := c.CloseCase(ctx, caseID, args.String("status"), args.String("summary"), args.String("impact_status"))
				if err != nil {
					return nil, err
				}
				return message("case %s closed", caseID), nil
			},
		},
		{
			Name:        "merge_cases",
			Title:       "Merge Cases",
			Description: "Merge two or more cases together.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_ids", Type: registry.Strings, Required: true, Description: "List of case IDs to merge"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.MergeCases(ctx, args.Strings("case_ids"))
			},
		},
		{
			Name:        "create_case_observable",
			Title:       "Create Case Observable",
			Description: "Create observable in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "data_type", Type: registry.String, Required: true, Description: "Observable data type"},
				{Name: "data", Type: registry.StringOrStrings, Required: true, Description: "Observable value(s)"},
				{Name: "message", Type: registry.String, Description: "Description or context"},
				{Name: "tags", Type: registry.Strings, Description: "Observable tags"},
				{Name: "ioc", Type: registry.Boolean, Description: "Whether it's an IOC"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observable := map[string]any{
					"dataType": args.String("data_type"),
					"data":     args["data"],
				}
				for k, v := range pick(args, "message", "tags", "ioc") {
					observable[k] = v
				}
				return c.CreateCaseObservable(ctx, args.String("case_id"), observable)
			},
		},
		{
			Name:        "find_case_observables",
			Title:       "Find Case Observables",
			Description: "Find observables in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "limit", Type: registry.Integer, Description: "Maximum results"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCaseObservables(ctx, args.String("case_id"), int(args.Int("limit")))
			},
		},
		{
			Name:        "get_case_similar_observables",
			Title:       "Get Case Similar Observables",
			Description: "Get observables shared between a case and another case or alert.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Source case"},
				{Name: "other_id", Type: registry.String, Required: true, Description: "Target case/alert ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetCaseSimilarObservables(ctx, args.String("case_id"), args.String("other_id"))
			},
		},
		{
			Name:        "find_case_comments",
			Title:       "Find Case Comments",
			Description: "Find comments in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCaseComments(ctx, args.String("case_id"))
			},
		},
		{
			Name:        "create_case_task",
			Title:       "Create Case Task",
			Description: "Create a task in a case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The ID of the case"},
				{Name: "title", Type: registry.String, Required: true, Description: "Task title"},
				{Name: "description", Type: registry.String, Default: "", Description: "Task description"},
				{Name: "group", Type: registry.String, Description: "Task group"},
				{Name: "assignee", Type: registry.String, Description: "Assigned user"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				task := pick(args, "title", "description", "group", "assignee")
				return c.CreateCaseTask(ctx, args.String("case_id"), task)
			},
		},
		{
			Name:        "find_case_tasks",
			Title:       "Find Case Tasks",
			Description: "Find tasks in a case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The ID of the case"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCaseTasks(ctx, args.String("case_id"))
			},
		},
		{
			Name:        "create_case_procedure",
			Title:       "Create Case Procedure",
			Description: "Attach a TTP procedure to a case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The ID of the case"},
				{Name: "occur_date", Type: registry.Timestamp, Required: true, Description: "Occurrence date, epoch millis or RFC3339"},
				{Name: "pattern_id", Type: registry.String, Required: true, Description: "ATT&CK pattern ID"},
				{Name: "tactic", Type: registry.String, Description: "Tactic"},
				{Name: "description", Type: registry.String, Description: "Description"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				procedure := map[string]any{
					"occurDate": args.Int("occur_date"),
					"patternId": args.String("pattern_id"),
				}
				for k, v := range pick(args, "tactic", "description") {
					procedure[k] = v
				}
				return c.CreateCaseProcedure(ctx, args.String("case_id"), procedure)
			},
		},
		{
			Name:        "find_case_procedures",
			Title:       "Find Case Procedures",
			Description: "Find procedures in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCaseProcedures(ctx, args.String("case_id"))
			},
		},
		{
			Name:        "add_case_attachment",
			Title:       "Add Case Attachment",
			Description: "Upload local files as case attachments.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "attachment_paths", Type: registry.Strings, Required: true, Description: "Paths to attachments"},
				{Name: "can_rename", Type: registry.Boolean, Default: true, Description: "Whether files can be renamed"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.AddCaseAttachment(ctx, args.String("case_id"), args.Strings("attachment_paths"), args.Bool("can_rename"))
			},
		},
		{
			Name:        "delete_case_attachment",
			Title:       "Delete Case Attachment",
			Description: "Delete case attachment.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "attachment_id", Type: registry.String, Required: true, Description: "Attachment ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				attachmentID := args.String("attachment_id")
				if err := c.DeleteCaseAttachment(ctx, args.String("case_id"), attachmentID); err != nil {
					return nil, err
				}
				return message("attachment %s deleted", attachmentID), nil
			},
		},
		{
			Name:        "download_case_attachment",
			Title:       "Download Case Attachment",
			Description: "Download case attachment to a local file.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "attachment_id", Type: registry.String, Required: true, Description: "Attachment ID"},
				{Name: "attachment_path", Type: registry.String, Required: true, Description: "Path to save attachment"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				destPath := args.String("attachment_path")
				err := c.DownloadCaseAttachment(ctx, args.String("case_id"), args.String("attachment_id"), destPath)
				if err != nil {
					return nil, err
				}
				return message("attachment downloaded to %s", destPath), nil
			},
		},
		{
			Name:        "find_case_attachments",
			Title:       "Find Case Attachments",
			Description: "Find case attachments.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCaseAttachments(ctx, args.String("case_id"))
			},
		},
		{
			Name:        "create_case_page",
			Title:       "Create Case Page",
			Description: "Create page in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
				{Name: "title", Type: registry.String, Required: true, Description: "Page title"},
				{Name: "content", Type: registry.String, Required: true, Description: "Page content"},
				{Name: "category", Type: registry.String, Description: "Page category"},
				{Name: "order", Type: registry.Integer, Description: "Page order"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				page := pick(args, "title", "content", "category", "order")
				return c.CreateCasePage(ctx, args.String("case_id"), page)
			},
		},
		{
			Name:        "find_case_pages",
			Title:       "Find Case Pages",
			Description: "Find pages in case.",
			Module:      ModuleCase,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindCasePages(ctx, args.String("case_id"))
			},
		},
	}
}
