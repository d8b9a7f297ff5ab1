package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hivebridge/thehive-mcp/internal/dispatch"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	err := reg.Register(registry.Definition{
		Name:   "echo",
		Module: "case",
		Fields: []registry.Field{{Name: "value", Type: registry.String, Required: true}},
		Handler: func(ctx context.Context, args registry.Args) (any, error) {
			return map[string]any{"value": args.String("value")}, nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func callTool(t *testing.T, d *dispatch.Dispatcher, operation string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = operation
	req.Params.Arguments = args

	res, err := toolHandler(d, operation)(context.Background(), req)
	if err != nil {
		t.Fatalf("tool handler returned protocol error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return res, text.Text
}

func TestToolHandlerSuccess(t *testing.T) {
	reg := newTestRegistry(t)
	logger, _ := zap.NewDevelopment()
	d := dispatch.New(reg, nil, logger)

	res, text := callTool(t, d, "echo", map[string]any{"value": "hello"})
	if res.IsError {
		t.Fatalf("success flagged as error: %s", text)
	}

	var env struct {
		OK     bool           `json:"ok"`
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		t.Fatalf("result text is not an envelope: %v", err)
	}
	if !env.OK || env.Result["value"] != "hello" {
		t.Fatalf("envelope = %s", text)
	}
}

func TestToolHandlerFlagsFailures(t *testing.T) {
	reg := newTestRegistry(t)
	logger, _ := zap.NewDevelopment()
	d := dispatch.New(reg, nil, logger)

	res, text := callTool(t, d, "echo", map[string]any{})
	if !res.IsError {
		t.Fatal("validation failure not flagged IsError")
	}
	if !strings.Contains(text, "\"kind\":\"validation\"") {
		t.Fatalf("envelope = %s", text)
	}
}

func TestNewRegistersEveryOperation(t *testing.T) {
	reg := newTestRegistry(t)
	logger, _ := zap.NewDevelopment()
	d := dispatch.New(reg, nil, logger)

	s := New(reg, d, logger)
	if s == nil || s.mcp == nil {
		t.Fatal("server not constructed")
	}
}

func TestShutdownStopsSSEServer(t *testing.T) {
	reg := newTestRegistry(t)
	logger, _ := zap.NewDevelopment()
	d := dispatch.New(reg, nil, logger)
	s := New(reg, d, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- s.ServeSSE("127.0.0.1:0") }()

	// Give the listener a moment to come up before stopping it.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve returned %v after shutdown, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sse server still running after shutdown")
	}
}
