package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hivebridge/thehive-mcp/internal/audit"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// Dispatcher executes tool calls: registry lookup, argument validation,
// handler invocation and envelope normalization. One Dispatcher serves all
// operations; it is safe for concurrent use.
type Dispatcher struct {
	reg    *registry.Registry
	writer audit.EventWriter
	logger *zap.Logger
}

// New creates a Dispatcher. writer may be nil when auditing is disabled.
func New(reg *registry.Registry, writer audit.EventWriter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, writer: writer, logger: logger}
}

// Dispatch runs one tool call end to end and always returns an envelope.
// Validation failures never reach the handler; handler panics are contained
// and reported as unexpected errors.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, raw map[string]any) Envelope {
	requestID := uuid.NewString()
	start := time.Now()

	env := d.dispatch(ctx, operation, requestID, raw)

	latency := float32(time.Since(start).Microseconds()) / 1000.0
	d.record(operation, requestID, raw, env, latency)

	if env.OK {
		d.logger.Info("tool call completed",
			zap.String("operation", operation),
			zap.String("request_id", requestID),
			zap.Float32("latency_ms", latency),
		)
	} else {
		d.logger.Warn("tool call failed",
			zap.String("operation", operation),
			zap.String("request_id", requestID),
			zap.String("kind", string(env.Error.Kind)),
			zap.String("message", env.Error.Message),
			zap.Float32("latency_ms", latency),
		)
	}
	return env
}

func (d *Dispatcher) dispatch(ctx context.Context, operation, requestID string, raw map[string]any) Envelope {
	op, err := d.reg.Lookup(operation)
	if err != nil {
		return d.fail(operation, requestID, err)
	}

	args, err := op.Validate(raw)
	if err != nil {
		return d.fail(operation, requestID, err)
	}

	result, err := d.invoke(ctx, op, args)
	if err != nil {
		return d.fail(operation, requestID, err)
	}

	return Envelope{
		OK:        true,
		Operation: operation,
		RequestID: requestID,
		Result:    result,
	}
}

// invoke runs the handler with panic containment. A panicking handler must
// not take down the server or leak a half-built response.
func (d *Dispatcher) invoke(ctx context.Context, op *registry.Operation, args registry.Args) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panic",
				zap.String("operation", op.Name),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return op.Handler(ctx, args)
}

func (d *Dispatcher) fail(operation, requestID string, err error) Envelope {
	return Envelope{
		OK:        false,
		Operation: operation,
		RequestID: requestID,
		Error: &EnvelopeError{
			Kind:    Classify(err),
			Message: err.Error(),
		},
	}
}

func (d *Dispatcher) record(operation, requestID string, raw map[string]any, env Envelope, latency float32) {
	if d.writer == nil {
		return
	}

	event := &audit.ToolCallEvent{
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Operation: operation,
		OK:        env.OK,
		LatencyMs: latency,
	}
	if op, err := d.reg.Lookup(operation); err == nil {
		event.Module = op.Module
	}
	if argsJSON, err := json.Marshal(raw); err == nil {
		event.ArgumentsJSON = string(argsJSON)
	}
	if env.Error != nil {
		event.ErrorKind = string(env.Error.Kind)
		event.ErrorMessage = env.Error.Message
	}
	d.writer.Write(event)
}
