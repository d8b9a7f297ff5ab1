package tools

import (
	"context"

	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// TaskDefinitions returns the task module tools.
func TaskDefinitions(c *hive.Client, bulkWorkers int) []registry.Definition {
	return []registry.Definition{
		{
			Name:        "create_task",
			Title:       "Create Task",
			Description: "Create a new task in a case.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "case_id", Type: registry.String, Required: true, Description: "The ID of the case"},
				{Name: "title", Type: registry.String, Required: true, Description: "Task title"},
				{Name: "description", Type: registry.String, Description: "Task description"},
				{Name: "group", Type: registry.String, Description: "Task group"},
				{Name: "assignee", Type: registry.String, Description: "Assigned user"},
				{Name: "status", Type: registry.String, Enum: taskStatuses, Description: "Task status"},
				{Name: "flag", Type: registry.Boolean, Description: "Flag status"},
				{Name: "dueDate", Type: registry.Timestamp, Description: "Due date, epoch millis or RFC3339"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				task := pick(args, "title", "description", "group", "assignee", "status", "flag", "dueDate")
				return c.CreateCaseTask(ctx, args.String("case_id"), task)
			},
		},
		{
			Name:        "get_tasks",
			Title:       "Get Tasks",
			Description: "Get all tasks with optional filtering and pagination.",
			Module:      ModuleTask,
			Fields:      searchFields(),
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindTasks(ctx, args.Map("filters"), args.Map("sortby"), args.Map("paginate"))
			},
		},
		{
			Name:        "get_task",
			Title:       "Get Task",
			Description: "Get a single task by ID.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "The unique identifier of the task"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetTask(ctx, args.String("task_id"))
			},
		},
		{
			Name:        "update_task",
			Title:       "Update Task",
			Description: "Update a task.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID to update"},
				{Name: "fields", Type: registry.Object, Required: true, Description: "Fields to update", Properties: []registry.Field{
					{Name: "title", Type: registry.String, Description: "Task title"},
					{Name: "description", Type: registry.String, Description: "Task description"},
					{Name: "status", Type: registry.String, Enum: taskStatuses, Description: "Task status"},
					{Name: "assignee", Type: registry.String, Description: "Assigned user"},
					{Name: "flag", Type: registry.Boolean, Description: "Flag status"},
					{Name: "dueDate", Type: registry.Timestamp, Description: "Due date"},
				}},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				taskID := args.String("task_id")
				if err := c.UpdateTask(ctx, taskID, args.Map("fields")); err != nil {
					return nil, err
				}
				return message("task %s updated", taskID), nil
			},
		},
		{
			Name:        "delete_task",
			Title:       "Delete Task",
			Description: "Delete a task.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "The unique identifier of the task to delete"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				taskID := args.String("task_id")
				if err := c.DeleteTask(ctx, taskID); err != nil {
					return nil, err
				}
				return message("task %s deleted", taskID), nil
			},
		},
		{
			Name:        "bulk_update_tasks",
			Title:       "Bulk Update Tasks",
			Description: "Update multiple tasks. Each task is updated independently; per-task outcomes are reported.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_ids", Type: registry.Strings, Required: true, Description: "The IDs of the tasks to update"},
				{Name: "title", Type: registry.String, Description: "Title to apply"},
				{Name: "description", Type: registry.String, Description: "Description to apply"},
				{Name: "status", Type: registry.String, Enum: taskStatuses, Description: "Status to apply"},
				{Name: "assignee", Type: registry.String, Description: "Assignee to apply"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				fields := pick(args, "title", "description", "status", "assignee")
				res := bulk.Execute(ctx, args.Strings("task_ids"), bulkWorkers,
					func(ctx context.Context, id string) (any, error) {
						return nil, c.UpdateTask(ctx, id, fields)
					})
				return dispatch.FromBulk(res), nil
			},
		},
		{
			Name:        "count_tasks",
			Title:       "Count Tasks",
			Description: "Count tasks matching given filters.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "filters", Type: registry.Object, Description: "Filter criteria in the platform query format"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				n, err := c.CountTasks(ctx, args.Map("filters"))
				if err != nil {
					return nil, err
				}
				return countPayload(n), nil
			},
		},
		{
			Name:        "complete_task",
			Title:       "Complete Task",
			Description: "Mark a task as completed.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				taskID := args.String("task_id")
				if err := c.UpdateTask(ctx, taskID, map[string]any{"status": "Completed"}); err != nil {
					return nil, err
				}
				return message("task %s completed", taskID), nil
			},
		},
		{
			Name:        "start_task",
			Title:       "Start Task",
			Description: "Start a task.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				taskID := args.String("task_id")
				if err := c.UpdateTask(ctx, taskID, map[string]any{"status": "InProgress"}); err != nil {
					return nil, err
				}
				return message("task %s started", taskID), nil
			},
		},
		{
			Name:        "assign_task",
			Title:       "Assign Task",
			Description: "Assign a task to a user.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID"},
				{Name: "assignee", Type: registry.String, Required: true, Description: "User login to assign"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				taskID := args.String("task_id")
				assignee := args.String("assignee")
				if err := c.UpdateTask(ctx, taskID, map[string]any{"assignee": assignee}); err != nil {
					return nil, err
				}
				return message("task %s assigned to %s", taskID, assignee), nil
			},
		},
		{
			Name:        "create_task_log",
			Title:       "Create Task Log",
			Description: "Create a log entry for a task.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID"},
				{Name: "message", Type: registry.String, Required: true, Description: "Log message"},
				{Name: "include_in_timeline", Type: registry.Boolean, Description: "Whether the log appears in the case timeline"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				log := map[string]any{"message": args.String("message")}
				if args.Has("include_in_timeline") {
					log["includeInTimeline"] = args.Bool("include_in_timeline")
				}
				return c.CreateTaskLog(ctx, args.String("task_id"), log)
			},
		},
		{
			Name:        "find_task_logs",
			Title:       "Find Task Logs",
			Description: "Find logs for a task.",
			Module:      ModuleTask,
			Fields: []registry.Field{
				{Name: "task_id", Type: registry.String, Required: true, Description: "Task ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.FindTaskLogs(ctx, args.String("task_id"))
			},
		},
	}
}
