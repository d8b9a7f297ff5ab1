package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// fakeHive is a stable fake upstream. It knows one case (~1) and pretends
// observable id2 does not exist.
type fakeHive struct {
	mu    sync.Mutex
	calls int
	srv   *httptest.Server
}

func newFakeHive(t *testing.T) *fakeHive {
	t.Helper()
	f := &fakeHive{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHive) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeHive) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/case":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["_id"] = "~100"
		writeJSON(w, http.StatusCreated, body)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/case/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/case/")
		if id != "~1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"type": "NotFoundError", "message": "case not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"_id": "~1", "title": "phishing campaign", "severity": float64(2)})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/v1/observable/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/observable/")
		if id == "id2" {
			writeJSON(w, http.StatusNotFound, map[string]any{"type": "NotFoundError", "message": "observable not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"type": "Unhandled", "message": "unexpected call " + r.Method + " " + r.URL.Path})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestDispatcher(t *testing.T, f *fakeHive) *dispatch.Dispatcher {
	t.Helper()
	client := hive.NewClient(hive.Config{BaseURL: f.srv.URL, APIKey: "test-key"})
	defs, err := Definitions(client, 4, nil)
	if err != nil {
		t.Fatalf("build definitions: %v", err)
	}
	reg := registry.New()
	if err := reg.RegisterAll(defs); err != nil {
		t.Fatalf("register catalog: %v", err)
	}
	logger, _ := zap.NewDevelopment()
	return dispatch.New(reg, nil, logger)
}

func TestCatalogRegistersCleanly(t *testing.T) {
	f := newFakeHive(t)
	client := hive.NewClient(hive.Config{BaseURL: f.srv.URL, APIKey: "test-key"})
	defs, err := Definitions(client, 4, nil)
	if err != nil {
		t.Fatalf("build definitions: %v", err)
	}
	reg := registry.New()
	if err := reg.RegisterAll(defs); err != nil {
		t.Fatalf("register catalog: %v", err)
	}
	if reg.Len() != len(defs) {
		t.Fatalf("registered %d of %d definitions", reg.Len(), len(defs))
	}
	for _, name := range reg.Names() {
		op, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(op.SchemaJSON(), &doc); err != nil {
			t.Fatalf("%s schema is not valid JSON: %v", name, err)
		}
	}
}

func TestDefinitionsUnknownModule(t *testing.T) {
	f := newFakeHive(t)
	client := hive.NewClient(hive.Config{BaseURL: f.srv.URL, APIKey: "test-key"})
	if _, err := Definitions(client, 4, []string{"timeline"}); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestDefinitionsModuleSelection(t *testing.T) {
	f := newFakeHive(t)
	client := hive.NewClient(hive.Config{BaseURL: f.srv.URL, APIKey: "test-key"})
	defs, err := Definitions(client, 4, []string{ModuleCortex})
	if err != nil {
		t.Fatalf("build definitions: %v", err)
	}
	for _, def := range defs {
		if def.Module != ModuleCortex {
			t.Fatalf("module selection leaked %s (%s)", def.Name, def.Module)
		}
	}
	if len(defs) == 0 {
		t.Fatal("cortex selection returned no definitions")
	}
}

func TestCreateCaseEchoesTitle(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	env := d.Dispatch(context.Background(), "create_case", map[string]any{
		"title":    "suspicious login",
		"severity": float64(2),
		"tlp":      float64(2),
	})
	if !env.OK {
		t.Fatalf("expected success, got %+v", env.Error)
	}
	result, ok := env.Result.(map[string]any)
	if !ok {
		t.Fatalf("result = %T", env.Result)
	}
	if result["title"] != "suspicious login" {
		t.Fatalf("title = %v", result["title"])
	}
	if result["_id"] != "~100" {
		t.Fatalf("assigned id = %v", result["_id"])
	}
}

func TestCreateTaskMissingTitleMakesNoUpstreamCall(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	env := d.Dispatch(context.Background(), "create_task", map[string]any{"case_id": "~1"})
	if env.OK {
		t.Fatal("expected validation failure")
	}
	if env.Error.Kind != dispatch.KindValidation {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, dispatch.KindValidation)
	}
	if !strings.Contains(env.Error.Message, "title") {
		t.Fatalf("message %q does not name the missing field", env.Error.Message)
	}
	if f.callCount() != 0 {
		t.Fatalf("upstream called %d times for invalid input", f.callCount())
	}
}

func TestGetCaseNotFound(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	env := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~999"})
	if env.OK {
		t.Fatal("expected failure for unknown case")
	}
	if env.Error.Kind != dispatch.KindNotFound {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, dispatch.KindNotFound)
	}
}

func TestGetCaseIsIdempotent(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	first := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~1"})
	second := d.Dispatch(context.Background(), "get_case", map[string]any{"case_id": "~1"})
	if !first.OK || !second.OK {
		t.Fatalf("reads failed: %+v / %+v", first.Error, second.Error)
	}
	if !reflect.DeepEqual(first.Result, second.Result) {
		t.Fatalf("repeated read changed: %v vs %v", first.Result, second.Result)
	}
}

func TestBulkDeleteObservablesPartialFailure(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	env := d.Dispatch(context.Background(), "bulk_delete_observables", map[string]any{
		"observable_ids": []any{"id1", "id2", "id3"},
	})
	if !env.OK {
		t.Fatalf("bulk call itself must succeed, got %+v", env.Error)
	}
	payload, ok := env.Result.(dispatch.BulkPayload)
	if !ok {
		t.Fatalf("result = %T", env.Result)
	}
	if payload.Total != 3 {
		t.Fatalf("total = %d, want 3", payload.Total)
	}
	if len(payload.Succeeded) != 2 || payload.Succeeded[0] != "id1" || payload.Succeeded[1] != "id3" {
		t.Fatalf("succeeded = %v, want [id1 id3]", payload.Succeeded)
	}
	if len(payload.Failed) != 1 {
		t.Fatalf("failed = %v, want one entry", payload.Failed)
	}
	if payload.Failed[0].ID != "id2" || payload.Failed[0].Kind != dispatch.KindNotFound {
		t.Fatalf("failed[0] = %+v", payload.Failed[0])
	}
}

func TestCatalogEnumsAcceptEveryLegalValue(t *testing.T) {
	f := newFakeHive(t)
	client := hive.NewClient(hive.Config{BaseURL: f.srv.URL, APIKey: "test-key"})
	defs, err := Definitions(client, 4, nil)
	if err != nil {
		t.Fatalf("build definitions: %v", err)
	}
	reg := registry.New()
	if err := reg.RegisterAll(defs); err != nil {
		t.Fatalf("register catalog: %v", err)
	}

	// Validation only: no handler runs, so no upstream calls are made.
	tests := []struct {
		operation string
		field     string
		legal     []any
		base      map[string]any
	}{
		{"close_case", "status", closeStatuses, map[string]any{"case_id": "~1"}},
		{"close_case", "impact_status", impactStatuses, map[string]any{"case_id": "~1", "status": "TruePositive"}},
		{"create_case", "severity", severityLevels, map[string]any{"title": "t"}},
		{"create_case", "tlp", tlpLevels, map[string]any{"title": "t"}},
		{"create_case", "pap", papLevels, map[string]any{"title": "t"}},
		{"create_task", "status", taskStatuses, map[string]any{"case_id": "~1", "title": "t"}},
		{"list_cortex_responders", "entity_type", entityTypes, map[string]any{"entity_id": "~1"}},
	}

	for _, tt := range tests {
		op, err := reg.Lookup(tt.operation)
		if err != nil {
			t.Fatalf("lookup %s: %v", tt.operation, err)
		}
		for _, legal := range tt.legal {
			raw := map[string]any{tt.field: legal}
			for k, v := range tt.base {
				raw[k] = v
			}
			if _, err := op.Validate(raw); err != nil {
				t.Fatalf("%s: legal %s value %v rejected: %v", tt.operation, tt.field, legal, err)
			}
		}
	}
	if f.callCount() != 0 {
		t.Fatalf("upstream called %d times during validation", f.callCount())
	}
}

func TestCloseCaseRejectsBadStatus(t *testing.T) {
	f := newFakeHive(t)
	d := newTestDispatcher(t, f)

	env := d.Dispatch(context.Background(), "close_case", map[string]any{
		"case_id": "~1",
		"status":  "Solved",
	})
	if env.OK {
		t.Fatal("expected enum violation")
	}
	if env.Error.Kind != dispatch.KindValidation {
		t.Fatalf("kind = %q, want %q", env.Error.Kind, dispatch.KindValidation)
	}
	if f.callCount() != 0 {
		t.Fatalf("upstream called %d times for invalid input", f.callCount())
	}
}
