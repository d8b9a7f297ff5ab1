package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutePreservesOrder(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	res := Execute(context.Background(), keys, 3, func(ctx context.Context, key string) (any, error) {
		return "done:" + key, nil
	})
	if len(res.Items) != len(keys) {
		t.Fatalf("got %d items, want %d", len(res.Items), len(keys))
	}
	for i, key := range keys {
		if res.Items[i].Key != key {
			t.Fatalf("item %d key = %q, want %q", i, res.Items[i].Key, key)
		}
		if res.Items[i].Value != "done:"+key {
			t.Fatalf("item %d value = %v", i, res.Items[i].Value)
		}
	}
}

func TestExecutePartialFailure(t *testing.T) {
	boom := errors.New("not found")
	keys := []string{"id1", "id2", "id3"}
	res := Execute(context.Background(), keys, 2, func(ctx context.Context, key string) (any, error) {
		if key == "id2" {
			return nil, boom
		}
		return nil, nil
	})

	succeeded := res.Succeeded()
	if len(succeeded) != 2 || succeeded[0] != "id1" || succeeded[1] != "id3" {
		t.Fatalf("succeeded = %v, want [id1 id3]", succeeded)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].Key != "id2" {
		t.Fatalf("failed = %v, want one item for id2", failed)
	}
	if !errors.Is(failed[0].Err, boom) {
		t.Fatalf("failed item error = %v, want %v", failed[0].Err, boom)
	}
}

func TestExecuteAttemptsEveryItem(t *testing.T) {
	var calls atomic.Int64
	keys := make([]string, 20)
	for i := range keys {
		keys[i] = fmt.Sprintf("id%d", i)
	}
	res := Execute(context.Background(), keys, 4, func(ctx context.Context, key string) (any, error) {
		calls.Add(1)
		return nil, errors.New("always fails")
	})
	if got := calls.Load(); got != int64(len(keys)) {
		t.Fatalf("fn called %d times, want %d", got, len(keys))
	}
	if len(res.Failed()) != len(keys) {
		t.Fatalf("failed = %d, want %d", len(res.Failed()), len(keys))
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	const workers = 3
	var mu sync.Mutex
	inFlight, peak := 0, 0

	keys := make([]string, 30)
	for i := range keys {
		keys[i] = fmt.Sprintf("id%d", i)
	}
	Execute(context.Background(), keys, workers, func(ctx context.Context, key string) (any, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	})

	if peak > workers {
		t.Fatalf("peak concurrency %d exceeds limit %d", peak, workers)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	keys := []string{"a", "b", "c"}
	res := Execute(ctx, keys, 2, func(ctx context.Context, key string) (any, error) {
		return nil, nil
	})
	if len(res.Items) != len(keys) {
		t.Fatalf("got %d items, want %d even when cancelled", len(res.Items), len(keys))
	}
}

func TestExecuteEmptyKeys(t *testing.T) {
	res := Execute(context.Background(), nil, 4, func(ctx context.Context, key string) (any, error) {
		t.Fatal("fn must not be called for an empty batch")
		return nil, nil
	})
	if len(res.Items) != 0 {
		t.Fatalf("got %d items for empty batch", len(res.Items))
	}
}
