package audit

import "go.uber.org/zap"

// LogWriter is a fallback EventWriter for local development.
type LogWriter struct {
	logger *zap.Logger
}

// NewLogWriter creates a LogWriter that outputs events to the given logger.
func NewLogWriter(logger *zap.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Write(event *ToolCallEvent) {
	w.logger.Info("tool_call_event",
		zap.String("request_id", event.RequestID),
		zap.String("operation", event.Operation),
		zap.String("module", event.Module),
		zap.Bool("ok", event.OK),
		zap.String("error_kind", event.ErrorKind),
		zap.Float32("latency_ms", event.LatencyMs),
	)
}

func (w *LogWriter) Close() {}
