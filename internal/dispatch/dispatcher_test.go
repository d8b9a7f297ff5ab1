package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hivebridge/thehive-mcp/internal/audit"
	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// countingWriter records audit events for assertions.
type countingWriter struct {
	mu     sync.Mutex
	events []*audit.ToolCallEvent
}

func (w *countingWriter) Write(event *audit.ToolCallEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
}

func (w *countingWriter) Close() {}

func (w *countingWriter) last(t *testing.T) *audit.ToolCallEvent {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.events) == 0 {
		t.Fatal("no audit events recorded")
	}
	return w.events[len(w.events)-1]
}

func newTestDispatcher(t *testing.T, defs ...registry.Definition) (*Dispatcher, *countingWriter) {
	t.Helper()
	reg := registry.New()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	writer := &countingWriter{}
	logger, _ := zap.NewDevelopment()
	return New(reg, writer, logger), writer
}

func TestDispatchSuccess(t *testing.T) {
	d, writer := newTestDispatcher(t, registry.Definition{
		Name:   "get_case",
		Module: "case",
		Fields: []registry.Field{{Name: "case_id", Type: registry.String, Required: true}},
		Handler: func(ctx context.Context, args registry.Args) (any, error) {
			return map[string]any{"_id": args.String("case_id"), "title": "phishing"}, nil
		},
	})

	env := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~123"})
	if !env.OK {
		t.Fatalf("expected ok envelope, got error %+v", env.Error)
	}
	if env.Operation != "get_case" {
		t.Fatalf("operation = %q", env.Operation)
	}
	if env.RequestID == "" {
		t.Fatal("request id is empty")
	}
	if env.Error != nil {
		t.Fatal("ok envelope must not carry an error")
	}
	result, ok := env.Result.(map[string]any)
	if !ok || result["title"] != "phishing" {
		t.Fatalf("result = %v", env.Result)
	}

	event := writer.last(t)
	if !event.OK || event.Operation != "get_case" || event.Module != "case" {
		t.Fatalf("audit event = %+v", event)
	}
}

func TestDispatchUnknownOperation(t *testing.T) {
	d, writer := newTestDispatcher(t)
	env := d.Dispatch(context.Background(), "explode_case", map[string]any{})
	if env.OK {
		t.Fatal("expected error envelope")
	}
	if env.Error.Kind != KindUnknownOperation {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, KindUnknownOperation)
	}
	if env.Result != nil {
		t.Fatal("error envelope must not carry a result")
	}
	if event := writer.last(t); event.ErrorKind != string(KindUnknownOperation) {
		t.Fatalf("audit error kind = %q", event.ErrorKind)
	}
}

func TestDispatchValidationSkipsHandler(t *testing.T) {
	var calls int
	d, _ := newTestDispatcher(t, registry.Definition{
		Name:   "create_task",
		Module: "task",
		Fields: []registry.Field{
			{Name: "case_id", Type: registry.String, Required: true},
			{Name: "title", Type: registry.String, Required: true},
		},
		Handler: func(ctx context.Context, args registry.Args) (any, error) {
			calls++
			return nil, nil
		},
	})

	env := d.Dispatch(context.Background(), "create_task", map[string]any{"case_id": "~1"})
	if env.OK {
		t.Fatal("expected validation failure")
	}
	if env.Error.Kind != KindValidation {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, KindValidation)
	}
	if calls != 0 {
		t.Fatalf("handler called %d times for invalid input", calls)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	d, _ := newTestDispatcher(t, registry.Definition{
		Name:   "get_case",
		Module: "case",
		Fields: []registry.Field{{Name: "case_id", Type: registry.String, Required: true}},
		Handler: func(ctx context.Context, args registry.Args) (any, error) {
			return nil, &hive.APIError{Status: 404, Message: "case not found"}
		},
	})

	env := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~999"})
	if env.OK {
		t.Fatal("expected error envelope")
	}
	if env.Error.Kind != KindNotFound {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, KindNotFound)
	}
}

func TestDispatchHandlerPanic(t *testing.T) {
	d, _ := newTestDispatcher(t, registry.Definition{
		Name:   "get_case",
		Module: "case",
		Fields: []registry.Field{{Name: "case_id", Type: registry.String, Required: true}},
		Handler: func(ctx context.Context, args registry.Args) (any, error) {
			panic("boom")
		},
	})

	env := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~1"})
	if env.OK {
		t.Fatal("expected error envelope after panic")
	}
	if env.Error.Kind != KindUnexpected {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, KindUnexpected)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", &registry.ValidationError{Field: "title", Message: "missing"}, KindValidation},
		{"unknown operation", fmt.Errorf("%w: %q", registry.ErrUnknownOperation, "x"), KindUnknownOperation},
		{"401", &hive.APIError{Status: 401, Message: "bad key"}, KindAuthentication},
		{"403", &hive.APIError{Status: 403, Message: "forbidden"}, KindAuthentication},
		{"404", &hive.APIError{Status: 404, Message: "gone"}, KindNotFound},
		{"409", &hive.APIError{Status: 409, Message: "conflict"}, KindConflict},
		{"429", &hive.APIError{Status: 429, Message: "slow down"}, KindTransientUpstream},
		{"500", &hive.APIError{Status: 500, Message: "boom"}, KindTransientUpstream},
		{"503", &hive.APIError{Status: 503, Message: "unavailable"}, KindTransientUpstream},
		{"400", &hive.APIError{Status: 400, Message: "bad request"}, KindUnexpected},
		{"network", fmt.Errorf("hive: GET /api/v1/case: %w", &url.Error{Op: "Get", URL: "http://hive", Err: errors.New("connection refused")}), KindTransientUpstream},
		{"deadline", context.DeadlineExceeded, KindTransientUpstream},
		{"opaque", errors.New("something odd"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFromBulk(t *testing.T) {
	res := &bulk.Result{Items: []bulk.Item{
		{Key: "id1"},
		{Key: "id2", Err: &hive.APIError{Status: 404, Message: "not found"}},
		{Key: "id3"},
	}}
	payload := FromBulk(res)
	if payload.Total != 3 {
		t.Fatalf("total = %d, want 3", payload.Total)
	}
	if len(payload.Succeeded) != 2 || payload.Succeeded[0] != "id1" || payload.Succeeded[1] != "id3" {
		t.Fatalf("succeeded = %v", payload.Succeeded)
	}
	if len(payload.Failed) != 1 {
		t.Fatalf("failed = %v", payload.Failed)
	}
	if payload.Failed[0].ID != "id2" || payload.Failed[0].Kind != KindNotFound {
		t.Fatalf("failed[0] = %+v", payload.Failed[0])
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	env := Envelope{
		OK:        false,
		Operation: "get_case",
		RequestID: "req-1",
		Error:     &EnvelopeError{Kind: KindNotFound, Message: "gone"},
	}
	var decoded map[string]any
	if err := json.Unmarshal(env.JSON(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["ok"] != false {
		t.Fatalf("ok = %v", decoded["ok"])
	}
	if _, present := decoded["result"]; present {
		t.Fatal("error envelope serialized a result field")
	}
	errObj, ok := decoded["error"].(map[string]any)
	if !ok || errObj["kind"] != "not_found" {
		t.Fatalf("error = %v", decoded["error"])
	}
}
