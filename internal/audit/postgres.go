package audit

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// PostgresWriter writes tool call events to a Postgres table. Like the
// ClickHouse writer it buffers and inserts in the background so that
// Write() never blocks a tool call.
type PostgresWriter struct {
	db      *sql.DB
	buffer  chan *ToolCallEvent
	done    chan struct{}
	flushed chan struct{}
	logger  *zap.Logger
}

// NewPostgresWriter creates a PostgresWriter on an open database handle
// and starts the background flush loop. The caller keeps ownership of db.
func NewPostgresWriter(db *sql.DB, logger *zap.Logger) (*PostgresWriter, error) {
	if err := db.PingContext(context.Background()); err != nil {
		return nil, err
	}

	w := &PostgresWriter{
		db:      db,
		buffer:  make(chan *ToolCallEvent, bufferSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
		logger:  logger,
	}

	go w.flushLoop()
	return w, nil
}

// Write queues a tool call event for async insertion.
// Non-blocking: drops the event if the buffer is full.
func (w *PostgresWriter) Write(event *ToolCallEvent) {
	select {
	case w.buffer <- event:
	default:
		w.logger.Warn("postgres audit buffer full, dropping event",
			zap.String("request_id", event.RequestID),
		)
	}
}

// Close signals the flush loop to drain remaining events.
func (w *PostgresWriter) Close() {
	close(w.done)
	<-w.flushed
}

func (w *PostgresWriter) flushLoop() {
	defer close(w.flushed)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*ToolCallEvent, 0, flushBatch)

	for {
		select {
		case event := <-w.buffer:
			batch = append(batch, event)
			if len(batch) >= flushBatch {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-w.done:
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
		drainLoop:
			for {
				select {
				case event := <-w.buffer:
					batch = append(batch, event)
				case <-drainCtx.Done():
					break drainLoop
				default:
					break drainLoop
				}
			}
			if len(batch) > 0 {
				w.flush(batch)
			}
			return
		}
	}
}

func (w *PostgresWriter) flush(events []*ToolCallEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		w.logger.Error("postgres audit begin tx failed", zap.Error(err))
		return
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tool_call_events (
			request_id, timestamp, operation, module, arguments_json,
			ok, error_kind, error_message, latency_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		w.logger.Error("postgres audit prepare failed", zap.Error(err))
		_ = tx.Rollback()
		return
	}

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			e.RequestID,
			e.Timestamp,
			e.Operation,
			e.Module,
			e.ArgumentsJSON,
			e.OK,
			e.ErrorKind,
			e.ErrorMessage,
			e.LatencyMs,
		); err != nil {
			w.logger.Error("postgres audit insert failed",
				zap.String("request_id", e.RequestID),
				zap.Error(err),
			)
		}
	}
	_ = stmt.Close()

	if err := tx.Commit(); err != nil {
		w.logger.Error("postgres audit commit failed",
			zap.Int("batch_size", len(events)),
			zap.Error(err),
		)
	}
}
