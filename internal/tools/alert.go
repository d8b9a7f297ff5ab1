package tools

import (
	"context"

	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// AlertDefinitions returns the alert module tools.
func AlertDefinitions(c *hive.Client, bulkWorkers int) []registry.Definition {
	return []registry.Definition{
		{
			Name:        "create_alert",
			Title:       "Create Alert",
			Description: "Create a new alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "type", Type: registry.String, Required: true, Description: "Alert type"},
				{Name: "source", Type: registry.String, Required: true, Description: "Alert source"},
				{Name: "sourceRef", Type: registry.String, Required: true, Description: "Source reference, unique per source"},
				{Name: "title", Type: registry.String, Required: true, Description: "Alert title"},
				{Name: "description", Type: registry.String, Required: true, Description: "Alert description"},
				{Name: "severity", Type: registry.Integer, Enum: severityLevels, Description: "Alert severity (1-4)"},
				{Name: "tags", Type: registry.Strings, Description: "Alert tags"},
				{Name: "tlp", Type: registry.Integer, Enum: tlpLevels, Description: "Traffic Light Protocol level"},
				{Name: "pap", Type: registry.Integer, Enum: papLevels, Description: "Permissible Actions Protocol level"},
				{Name: "date", Type: registry.Timestamp, Description: "Alert date, epoch millis or RFC3339"},
				{Name: "customFields", Type: registry.Object, Description: "Custom fields"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := pick(args, "type", "source", "sourceRef", "title", "description",
					"severity", "tags", "tlp", "pap", "date", "customFields")
				return c.CreateAlert(ctx, fields)
			},
		},
		{
			Name:        "get_alerts",
			Title:       "Get Alerts",
			Description: "Get all alerts with optional filtering and pagination.",
			Module:      ModuleAlert,
			Fields:      searchFields(),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindAlerts(ctx, args.Map("filters"), args.Map("sortby"), args.Map("paginate"))
			},
		},
		{
			Name:        "get_alert",
			Title:       "Get Alert",
			Description: "Get a single alert by ID.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "The unique identifier of the alert"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetAlert(ctx, args.String("alert_id"))
			},
		},
		{
			Name:        "update_alert",
			Title:       "Update Alert",
			Description: "Update an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID to update"},
				{Name: "fields", Type: registry.Object, Required: true, Description: "Fields to update", Properties: []registry.Field{
					{Name: "title", Type: registry.String, Description: "Alert title"},
					{Name: "description", Type: registry.String, Description: "Alert description"},
					{Name: "severity", Type: registry.Integer, Enum: severityLevels, Description: "Alert severity (1-4)"},
					{Name: "tags", Type: registry.Strings, Description: "Alert tags"},
					{Name: "status", Type: registry.String, Description: "Alert status"},
				}},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				alertID := args.String("alert_id")
				if err := c.UpdateAlert(ctx, alertID, args.Map("fields")); err != nil {
					return nil, err
				}
				return message("alert %s updated", alertID), nil
			},
		},
		{
			Name:        "delete_alert",
			Title:       "Delete Alert",
			Description: "Delete an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "The unique identifier of the alert to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				alertID := args.String("alert_id")
				if err := c.DeleteAlert(ctx, alertID); err != nil {
					return nil, err
				}
				return message("alert %s deleted", alertID), nil
			},
		},
		{
			Name:        "bulk_update_alerts",
			Title:       "Bulk Update Alerts",
			Description: "Update multiple alerts with the same values. Each alert is updated independently; per-alert outcomes are reported.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_ids", Type: registry.Strings, Required: true, Description: "The IDs of the alerts to update"},
				{Name: "fields", Type: registry.Object, Required: true, Description: "The fields to apply to each alert"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := args.Map("fields")
				res := bulk.Execute(ctx, args.Strings("alert_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.UpdateAlert(ctx, id, fields)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "bulk_delete_alerts",
			Title:       "Bulk Delete Alerts",
			Description: "Delete multiple alerts. Each alert is deleted independently; per-alert outcomes are reported.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_ids", Type: registry.Strings, Required: true, Description: "The IDs of the alerts to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				res := bulk.Execute(ctx, args.Strings("alert_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.DeleteAlert(ctx, id)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "count_alerts",
			Title:       "Count Alerts",
			Description: "Count alerts matching given filters.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "filters", Type: registry.Object, Description: "Filter criteria in the platform query format"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				n, err := c.CountAlerts(ctx, args.Map("filters"))
				if err != nil {
					return nil, err
				}
				return countPayload(n), nil
			},
		},
		{
			Name:        "follow_alert",
			Title:       "Follow Alert",
			Description: "Follow an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				alertID := args.String("alert_id")
				if err := c.FollowAlert(ctx, alertID); err != nil {
					return nil, err
				}
				return message("now following alert %s", alertID), nil
			},
		},
		{
			Name:        "unfollow_alert",
			Title:       "Unfollow Alert",
			Description: "Unfollow an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				alertID := args.String("alert_id")
				if err := c.UnfollowAlert(ctx, alertID); err != nil {
					return nil, err
				}
				return message("unfollowed alert %s", alertID), nil
			},
		},
		{
			Name:        "promote_alert_to_case",
			Title:       "Promote Alert To Case",
			Description: "Promote an alert to a new case.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
				{Name: "fields", Type: registry.Object, Description: "Optional case fields for the promotion"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.PromoteAlertToCase(ctx, args.String("alert_id"), args.Map("fields"))
			},
		},
		{
			Name:        "merge_alert_into_case",
			Title:       "Merge Alert Into Case",
			Description: "Merge an alert into an existing case.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
				{Name: "case_id", Type: registry.String, Required: true, Description: "Target case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.MergeAlertIntoCase(ctx, args.String("alert_id"), args.String("case_id"))
			},
		},
		{
			Name:        "import_alert_into_case",
			Title:       "Import Alert Into Case",
			Description: "Import an alert's observables into a case.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
				{Name: "case_id", Type: registry.String, Required: true, Description: "Target case ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.ImportAlertIntoCase(ctx, args.String("alert_id"), args.String("case_id"))
			},
		},
		{
			Name:        "bulk_merge_alerts_into_case",
			Title:       "Bulk Merge Alerts Into Case",
			Description: "Merge multiple alerts into a case. Each alert is merged independently; per-alert outcomes are reported.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "Target case ID"},
				{Name: "alert_ids", Type: registry.Strings, Required: true, Description: "The IDs of the alerts to merge"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				caseID := args.String("case_id")
				res := bulk.Execute(ctx, args.Strings("alert_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return c.MergeAlertIntoCase(ctx, id, caseID)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "create_alert_observable",
			Title:       "Create Alert Observable",
			Description: "Create an observable in an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
				{Name: "data_type", Type: registry.String, Required: true, Description: "Observable data type"},
				{Name: "data", Type: registry.StringOrStrings, Required: true, Description: "Observable value(s)"},
				{Name: "message", Type: registry.String, Description: "Description or context"},
				{Name: "tags", Type: registry.Strings, Description: "Observable tags"},
				{Name: "ioc", Type: registry.Boolean, Description: "Whether it's an IOC"},
				{Name: "sighted", Type: registry.Boolean, Description: "Whether the observable has been sighted"},
				{Name: "tlp", Type: registry.Integer, Enum: tlpLevels, Description: "Traffic Light Protocol level"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observable := map[string]any{
					"dataType": args.String("data_type"),
					"data":     args["data"],
				}
				for k, v := range pick(args, "message", "tags", "ioc", "sighted", "tlp") {
					observable[k] = v
				}
				return c.CreateAlertObservable(ctx, args.String("alert_id"), observable)
			},
		},
		{
			Name:        "find_alert_observables",
			Title:       "Find Alert Observables",
			Description: "Find observables in an alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"},
				{Name: "limit", Type: registry.Integer, Description: "Maximum results"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindAlertObservables(ctx, args.String("alert_id"), int(args.Int("limit")))
			},
		},
		{
			Name:        "get_alert_similar_observables",
			Title:       "Get Alert Similar Observables",
			Description: "Get observables shared between an alert and another case or alert.",
			Module:      ModuleAlert,
			Fields: []registry.Field{
				{Name: "alert_id", Type: registry.String, Required: true, Description: "Source alert"},
				{Name: "other_id", Type: registry.String, Required: true, Description: "Target case/alert ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetAlertSimilarObservables(ctx, args.String("alert_id"), args.String("other_id"))
			},
		},
	}
}
