// Package audit persists a record of every dispatched tool call. Writers
// are fire-and-forget: a slow or unavailable audit sink never delays or
// fails the tool call itself.
package audit

import "time"

// EventWriter is the interface for persisting tool call events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ToolCallEvent)
	Close()
}

// ToolCallEvent is the audit record for one dispatched tool call.
type ToolCallEvent struct {
	RequestID     string
	Timestamp     time.Time
	Operation     string
	Module        string // case, alert, observable, task, cortex
	ArgumentsJSON string
	OK            bool
	ErrorKind     string // empty when OK
	ErrorMessage  string
	LatencyMs     float32
}
