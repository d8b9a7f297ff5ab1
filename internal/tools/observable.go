package tools

import (
	"context"

	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// observableFields is the creation field set shared by the case and alert
// variants.
func observableFields(parent registry.Field) []registry.Field {
	return append([]registry.Field{parent},
		registry.Field{Name: "data_type", Type: registry.String, Required: true, Description: "Observable data type"},
		registry.Field{Name: "data", Type: registry.StringOrStrings, Required: true, Description: "Observable value(s)"},
		registry.Field{Name: "message", Type: registry.String, Description: "Description or context"},
		registry.Field{Name: "tags", Type: registry.Strings, Description: "Observable tags"},
		registry.Field{Name: "ioc", Type: registry.Boolean, Description: "Whether it's an IOC"},
		registry.Field{Name: "sighted", Type: registry.Boolean, Description: "Whether the observable has been sighted"},
		registry.Field{Name: "tlp", Type: registry.Integer, Enum: tlpLevels, Description: "Traffic Light Protocol level"},
		registry.Field{Name: "pap", Type: registry.Integer, Enum: papLevels, Description: "Permissible Actions Protocol level"},
	)
}

func observableBody(args registry.Args) map[string]any {
	body := map[string]any{
		"dataType": args.String("data_type"),
		"data":     args["data"],
	}
	for k, v := range pick(args, "message", "tags", "ioc", "sighted", "tlp", "pap") {
		body[k] = v
	}
	return body
}

// ObservableDefinitions returns the observable module tools.
func ObservableDefinitions(c *hive.Client, bulkWorkers int) []registry.Definition {
	return []registry.Definition{
		{
			Name:        "create_observable_in_case",
			Title:       "Create Observable In Case",
			Description: "Create a new observable in a case.",
			Module:      ModuleObservable,
			Fields:      observableFields(registry.Field{Name: "case_id", Type: registry.String, Required: true, Description: "Case ID"}),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.CreateCaseObservable(ctx, args.String("case_id"), observableBody(args))
			},
		},
		{
			Name:        "create_observable_in_alert",
			Title:       "Create Observable In Alert",
			Description: "Create a new observable in an alert.",
			Module:      ModuleObservable,
			Fields:      observableFields(registry.Field{Name: "alert_id", Type: registry.String, Required: true, Description: "Alert ID"}),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.CreateAlertObservable(ctx, args.String("alert_id"), observableBody(args))
			},
		},
		{
			Name:        "get_observables",
			Title:       "Get Observables",
			Description: "Get all observables with optional filtering and pagination.",
			Module:      ModuleObservable,
			Fields:      searchFields(),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindObservables(ctx, args.Map("filters"), args.Map("sortby"), args.Map("paginate"))
			},
		},
		{
			Name:        "get_observable",
			Title:       "Get Observable",
			Description: "Get a single observable by ID.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_id", Type: registry.String, Required: true, Description: "The unique identifier of the observable"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetObservable(ctx, args.String("observable_id"))
			},
		},
		{
			Name:        "update_observable",
			Title:       "Update Observable",
			Description: "Update an observable.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_id", Type: registry.String, Required: true, Description: "Observable ID to update"},
				{Name: "message", Type: registry.String, Description: "Description or context"},
				{Name: "tags", Type: registry.Strings, Description: "Observable tags"},
				{Name: "ioc", Type: registry.Boolean, Description: "Whether it's an IOC"},
				{Name: "sighted", Type: registry.Boolean, Description: "Whether the observable has been sighted"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observableID := args.String("observable_id")
				fields := pick(args, "message", "tags", "ioc", "sighted")
				if err := c.UpdateObservable(ctx, observableID, fields); err != nil {
					return nil, err
				}
				return message("observable %s updated", observableID), nil
			},
		},
		{
			Name:        "delete_observable",
			Title:       "Delete Observable",
			Description: "Delete an observable.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_id", Type: registry.String, Required: true, Description: "The unique identifier of the observable to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observableID := args.String("observable_id")
				if err := c.DeleteObservable(ctx, observableID); err != nil {
					return nil, err
				}
				return message("observable %s deleted", observableID), nil
			},
		},
		{
			Name:        "bulk_update_observables",
			Title:       "Bulk Update Observables",
			Description: "Update multiple observables. Each observable is updated independently; per-item outcomes are reported.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_ids", Type: registry.Strings, Required: true, Description: "The IDs of the observables to update"},
				{Name: "message", Type: registry.String, Description: "Description to apply"},
				{Name: "tags", Type: registry.Strings, Description: "Tags to apply"},
				{Name: "ioc", Type: registry.Boolean, Description: "IOC flag to apply"},
				{Name: "sighted", Type: registry.Boolean, Description: "Sighted flag to apply"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := pick(args, "message", "tags", "ioc", "sighted")
				res := bulk.Execute(ctx, args.Strings("observable_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.UpdateObservable(ctx, id, fields)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "bulk_delete_observables",
			Title:       "Bulk Delete Observables",
			Description: "Delete multiple observables. Each observable is deleted independently; per-item outcomes are reported.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_ids", Type: registry.Strings, Required: true, Description: "The IDs of the observables to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				res := bulk.Execute(ctx, args.Strings("observable_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.DeleteObservable(ctx, id)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "count_observables",
			Title:       "Count Observables",
			Description: "Count observables matching given filters.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "filters", Type: registry.Object, Description: "Filter criteria in the platform query format"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				n, err := c.CountObservables(ctx, args.Map("filters"))
				if err != nil {
					return nil, err
				}
				return countPayload(n), nil
			},
		},
		{
			Name:        "share_observable",
			Title:       "Share Observable",
			Description: "Share an observable with organisations.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_id", Type: registry.String, Required: true, Description: "Observable ID"},
				{Name: "organisations", Type: registry.Strings, Required: true, Description: "Organisations to share with"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observableID := args.String("observable_id")
				orgs := args.Strings("organisations")
				if err := c.ShareObservable(ctx, observableID, orgs); err != nil {
					return nil, err
				}
				return message("observable %s shared with %d organisations", observableID, len(orgs)), nil
			},
		},
		{
			Name:        "unshare_observable",
			Title:       "Unshare Observable",
			Description: "Unshare an observable from organisations.",
			Module:      ModuleObservable,
			Fields: []registry.Field{
				{Name: "observable_id", Type: registry.String, Required: true, Description: "Observable ID"},
				{Name: "organisations", Type: registry.Strings, Required: true, Description: "Organisations to unshare from"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				observableID := args.String("observable_id")
				orgs := args.Strings("organisations")
				if err := c.UnshareObservable(ctx, observableID, orgs); err != nil {
					return nil, err
				}
				return message("observable %s unshared from %d organisations", observableID, len(orgs)), nil
			},
		},
	}
}
