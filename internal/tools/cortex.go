package tools

import (
	"context"

	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// CortexDefinitions returns the Cortex connector tools. These have no bulk
// variants; analyzer jobs are inherently one observable at a time.
func CortexDefinitions(c *hive.Client) []registry.Definition {
	analyzerJob := func(ctx context.Context, args registry.Args, artifactKey string) (any, error) {
		job := map[string]any{
			"analyzerId": args.String("analyzer_id"),
			"cortexId":   args.String("cortex_id"),
			"artifactId": args.String(artifactKey),
		}
		if args.Has("parameters") {
			job["parameters"] = args.Map("parameters")
		}
		return c.CreateAnalyzerJob(ctx, job)
	}

	return []registry.Definition{
		{
			Name:        "list_cortex_analyzers",
			Title:       "List Cortex Analyzers",
			Description: "List available Cortex analyzers.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "range", Type: registry.String, Description: "Optional pagination range, e.g. \"0-49\""},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.ListAnalyzers(ctx, args.String("range"))
			},
		},
		{
			Name:        "list_cortex_analyzers_by_type",
			Title:       "List Cortex Analyzers By Type",
			Description: "List Cortex analyzers supporting a specific observable data type.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "data_type", Type: registry.String, Required: true, Description: "Observable data type"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.ListAnalyzersByType(ctx, args.String("data_type"))
			},
		},
		{
			Name:        "get_cortex_analyzer",
			Title:       "Get Cortex Analyzer",
			Description: "Get a Cortex analyzer by id.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "analyzer_id", Type: registry.String, Required: true, Description: "Analyzer ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetAnalyzer(ctx, args.String("analyzer_id"))
			},
		},
		{
			Name:        "create_cortex_analyzer_job",
			Title:       "Create Cortex Analyzer Job",
			Description: "Create a Cortex analyzer job for an observable (artifact).",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "analyzer_id", Type: registry.String, Required: true, Description: "Analyzer ID"},
				{Name: "cortex_id", Type: registry.String, Required: true, Description: "Cortex instance ID"},
				{Name: "artifact_id", Type: registry.String, Required: true, Description: "Observable (artifact) ID"},
				{Name: "parameters", Type: registry.Object, Description: "Analyzer parameters"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return analyzerJob(ctx, args, "artifact_id")
			},
		},
		{
			Name:        "get_cortex_analyzer_job",
			Title:       "Get Cortex Analyzer Job",
			Description: "Get a Cortex analyzer job with its report.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "job_id", Type: registry.String, Required: true, Description: "Job ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.GetAnalyzerJob(ctx, args.String("job_id"))
			},
		},
		{
			Name:        "run_observable_analyzer",
			Title:       "Run Observable Analyzer",
			Description: "Run an analyzer against an observable. Convenience wrapper that builds and submits an analyzer job.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "analyzer_id", Type: registry.String, Required: true, Description: "Analyzer ID"},
				{Name: "cortex_id", Type: registry.String, Required: true, Description: "Cortex instance ID"},
				{Name: "observable_id", Type: registry.String, Required: true, Description: "Observable ID"},
				{Name: "parameters", Type: registry.Object, Description: "Analyzer parameters"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return analyzerJob(ctx, args, "observable_id")
			},
		},
		{
			Name:        "list_cortex_responders",
			Title:       "List Cortex Responders",
			Description: "List Cortex responders available for an entity.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "entity_type", Type: registry.String, Required: true, Enum: entityTypes, Description: "Entity type"},
				{Name: "entity_id", Type: registry.String, Required: true, Description: "Entity ID"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				return c.ListResponders(ctx, args.String("entity_type"), args.String("entity_id"))
			},
		},
		{
			Name:        "create_cortex_responder_action",
			Title:       "Create Cortex Responder Action",
			Description: "Execute a Cortex responder action on an entity.",
			Module:      ModuleCortex,
			Fields: []registry.Field{
				{Name: "object_type", Type: registry.String, Required: true, Enum: entityTypes, Description: "Entity type"},
				{Name: "object_id", Type: registry.String, Required: true, Description: "Entity ID"},
				{Name: "responder_id", Type: registry.String, Required: true, Description: "Responder ID"},
				{Name: "parameters", Type: registry.Object, Description: "Responder parameters"},
				{Name: "tlp", Type: registry.Integer, Enum: tlpLevels, Description: "Traffic Light Protocol level"},
			},
			Handler: func(ctx context.Context, args registry.Args) (any, error) {
				action := map[string]any{
					"objectType":  args.String("object_type"),
					"objectId":    args.String("object_id"),
					"responderId": args.String("responder_id"),
				}
				for k, v := range pick(args, "parameters", "tlp") {
					action[k] = v
				}
				return c.CreateResponderAction(ctx, action)
			},
		},
	}
}
