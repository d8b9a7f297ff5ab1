// Package dispatch routes tool calls through validation, execution and
// response normalization. Every call produces exactly one envelope: either
// a result or a classified error, never both.
package dispatch

import "encoding/json"

// ErrorKind classifies a failed tool call. Callers branch on the kind;
// the message is for humans.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnknownOperation  ErrorKind = "unknown_operation"
	KindAuthentication    ErrorKind = "authentication"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindTransientUpstream ErrorKind = "transient_upstream"
	KindUnexpected        ErrorKind = "unexpected"
)

// EnvelopeError is the error half of an envelope.
type EnvelopeError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Envelope is the uniform response shape for every tool call. Result and
// Error are mutually exclusive.
type Envelope struct {
	OK        bool           `json:"ok"`
	Operation string         `json:"operation"`
	RequestID string         `json:"request_id"`
	Result    any            `json:"result,omitempty"`
	Error     *EnvelopeError `json:"error,omitempty"`
}

// JSON renders the envelope as a JSON document.
func (e Envelope) JSON() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		// Envelope fields are plain data; a handler returning an
		// unmarshalable result is a programming error.
		fallback := Envelope{
			OK:        false,
			Operation: e.Operation,
			RequestID: e.RequestID,
			Error:     &EnvelopeError{Kind: KindUnexpected, Message: "response not serializable: " + err.Error()},
		}
		b, _ = json.Marshal(fallback)
	}
	return b
}

// BulkFailure is one failed target of a bulk operation.
type BulkFailure struct {
	ID      string    `json:"id"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// BulkPayload is the result shape for bulk operations. The call as a whole
// succeeds even when individual targets fail; per-target outcomes are
// reported here in the caller's input order.
type BulkPayload struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
	Total     int           `json:"total"`
}
