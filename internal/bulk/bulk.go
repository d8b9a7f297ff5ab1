// Package bulk runs one operation over many targets with per-item
// outcomes. A batch never aborts on the first failure: every item is
// attempted and reported, and results keep the caller's input order.
package bulk

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent fan-out when no explicit limit is set.
const DefaultWorkers = 8

// Item is the outcome for one target in a batch.
type Item struct {
	Key   string
	Value any
	Err   error
}

// Result holds the per-item outcomes of a batch, in input order.
type Result struct {
	Items []Item
}

// Succeeded returns the keys of items that completed without error,
// preserving input order.
func (r *Result) Succeeded() []string {
	keys := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Err == nil {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Failed returns the items that ended in error, preserving input order.
func (r *Result) Failed() []Item {
	var failed []Item
	for _, it := range r.Items {
		if it.Err != nil {
			failed = append(failed, it)
		}
	}
	return failed
}

// Fn performs the operation for a single target.
type Fn func(ctx context.Context, key string) (any, error)

// Execute runs fn once per key with at most workers concurrent calls.
// Item errors are captured, never propagated; the only way Execute itself
// fails is context cancellation, and even then every item slot is filled.
func Execute(ctx context.Context, keys []string, workers int, fn Fn) *Result {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	res := &Result{Items: make([]Item, len(keys))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range keys {
		res.Items[i].Key = key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Items[i].Err = err
				return nil
			}
			v, err := fn(gctx, key)
			res.Items[i].Value = v
			res.Items[i].Err = err
			return nil
		})
	}
	g.Wait() // always nil: item errors are recorded, not returned

	return res
}
