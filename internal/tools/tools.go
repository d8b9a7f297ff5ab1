// Package tools declares the operation catalog: one declarative definition
// per tool, grouped by platform module (case, alert, observable, task,
// cortex). Definitions carry the argument schema and a handler closing over
// the upstream client; everything else (validation, dispatch, response
// shaping) is derived from the declaration.
package tools

import (
	"fmt"

	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

const (
	ModuleCase       = "case"
	ModuleAlert      = "alert"
	ModuleObservable = "observable"
	ModuleTask       = "task"
	ModuleCortex     = "cortex"
)

// Enumerated platform values.
var (
	severityLevels = []any{1, 2, 3, 4}
	tlpLevels      = []any{0, 1, 2, 3, 4}
	papLevels      = []any{0, 1, 2, 3}
	closeStatuses  = []any{"TruePositive", "FalsePositive", "Indeterminate", "Duplicated", "Other"}
	impactStatuses = []any{"NotApplicable", "WithImpact", "NoImpact"}
	taskStatuses   = []any{"Waiting", "InProgress", "Completed", "Cancel"}
	entityTypes    = []any{"alert", "case", "case_artifact", "case_task", "case_task_log", "procedure", "page"}
)

// ModuleNames returns the catalog modules in registration order.
func ModuleNames() []string {
	return []string{ModuleCase, ModuleAlert, ModuleObservable, ModuleTask, ModuleCortex}
}

// Definitions returns the tool definitions for the selected modules.
// An empty selection means all modules.
func Definitions(c *hive.Client, bulkWorkers int, modules []string) ([]registry.Definition, error) {
	if len(modules) == 0 {
		modules = ModuleNames()
	}

	var defs []registry.Definition
	for _, m := range modules {
		switch m {
		case ModuleCase:
			defs = append(defs, CaseDefinitions(c, bulkWorkers)...)
		case ModuleAlert:
			defs = append(defs, AlertDefinitions(c, bulkWorkers)...)
		case ModuleObservable:
			defs = append(defs, ObservableDefinitions(c, bulkWorkers)...)
		case ModuleTask:
			defs = append(defs, TaskDefinitions(c, bulkWorkers)...)
		case ModuleCortex:
			defs = append(defs, CortexDefinitions(c)...)
		default:
			return nil, fmt.Errorf("tools: unknown module %q (valid: %v)", m, ModuleNames())
		}
	}
	return defs, nil
}

// searchFields is the common argument trio of the list tools. The mappings
// are passed to the upstream query pipeline verbatim.
func searchFields() []registry.Field {
	return []registry.Field{
		{Name: "filters", Type: registry.Object, Description: "Filter criteria in the platform query format"},
		{Name: "sortby", Type: registry.Object, Description: "Sort specification, e.g. {\"_field\": \"createdAt\", \"_order\": \"desc\"}"},
		{Name: "paginate", Type: registry.Object, Description: "Pagination settings, e.g. {\"from\": 0, \"to\": 50}"},
	}
}

// message is the payload shape for operations whose upstream response has
// no body.
func message(format string, a ...any) map[string]any {
	return map[string]any{"message": fmt.Sprintf(format, a...)}
}

// countPayload is the payload shape for count operations.
func countPayload(count int64) map[string]any {
	return map[string]any{"count": count}
}

// pick copies the named arguments into a mapping, skipping absent ones.
func pick(args registry.Args, names ...string) map[string]any {
	out := make(map[string]any)
	for _, name := range names {
		if args.Has(name) {
			out[name] = args[name]
		}
	}
	return out
}
