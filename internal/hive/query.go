package hive

import (
	"context"
	"encoding/json"
	"fmt"
)

// TheHive exposes search and count through a single query endpoint that
// takes a pipeline of named stanzas: a root selector ("listCase",
// "getAlert", ...) followed by optional filter/sort/page stages.

const queryPath = "/api/v1/query"

// searchStanzas builds a find pipeline from caller-supplied filter, sort
// and page mappings, wrapping each in its "_name" stanza the same way the
// platform's own clients do.
func searchStanzas(root map[string]any, filters, sortby, paginate map[string]any) []map[string]any {
	query := []map[string]any{root}
	if len(filters) > 0 {
		query = append(query, stanza("filter", filters))
	}
	if len(sortby) > 0 {
		query = append(query, stanza("sort", sortby))
	}
	if len(paginate) > 0 {
		query = append(query, stanza("page", paginate))
	}
	return query
}

func stanza(name string, fields map[string]any) map[string]any {
	s := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		s[k] = v
	}
	s["_name"] = name
	return s
}

// find runs a search pipeline and returns the matched entities in the
// order the platform returned them.
func (c *Client) find(ctx context.Context, query []map[string]any) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.post(ctx, queryPath, map[string]any{"query": query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// count appends a count stage to the pipeline and returns the scalar.
func (c *Client) count(ctx context.Context, query []map[string]any) (int64, error) {
	query = append(query, map[string]any{"_name": "count"})
	var out json.Number
	if err := c.post(ctx, queryPath, map[string]any{"query": query}, &out); err != nil {
		return 0, err
	}
	n, err := out.Int64()
	if err != nil {
		return 0, fmt.Errorf("hive: count response %q is not an integer: %w", out, err)
	}
	return n, nil
}

// childQuery selects one entity and descends into a child collection,
// e.g. getCase -> observables.
func childQuery(rootName, id, childName string) []map[string]any {
	return []map[string]any{
		{"_name": rootName, "idOrName": id},
		{"_name": childName},
	}
}
