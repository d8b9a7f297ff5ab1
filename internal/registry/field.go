package registry

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType enumerates the argument types an operation can declare.
type FieldType string

const (
	String    FieldType = "string"
	Integer   FieldType = "integer"
	Number    FieldType = "number"
	Boolean   FieldType = "boolean"
	Strings   FieldType = "strings"   // array of strings
	Object    FieldType = "object"    // nested mapping
	Timestamp FieldType = "timestamp" // epoch millis; RFC3339 strings are coerced
	// StringOrStrings accepts a single string or an array of strings,
	// matching the platform's multi-value observable data field.
	StringOrStrings FieldType = "string_or_strings"
)

// Field declares one argument of an operation. The declaration is the
// single source of truth: the JSON schema served to clients and the
// validation applied to inbound arguments are both derived from it.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
	Enum        []any // legal values; empty means unconstrained
	Default     any   // applied when the field is absent
	Properties  []Field // nested fields for Object types; nil means free-form
}

// schema renders the JSON-schema fragment for a single field.
func (f Field) schema() map[string]any {
	var s map[string]any
	switch f.Type {
	case String:
		s = map[string]any{"type": "string"}
	case Integer, Timestamp:
		s = map[string]any{"type": "integer"}
	case Number:
		s = map[string]any{"type": "number"}
	case Boolean:
		s = map[string]any{"type": "boolean"}
	case Strings:
		s = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case StringOrStrings:
		s = map[string]any{"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}}
	case Object:
		s = map[string]any{"type": "object"}
		if f.Properties != nil {
			props := make(map[string]any, len(f.Properties))
			var required []any
			for _, p := range f.Properties {
				props[p.Name] = p.schema()
				if p.Required {
					required = append(required, p.Name)
				}
			}
			s["properties"] = props
			s["additionalProperties"] = false
			if len(required) > 0 {
				s["required"] = required
			}
		}
	default:
		s = map[string]any{}
	}
	if len(f.Enum) > 0 {
		s["enum"] = f.Enum
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	return s
}

// objectSchema renders the full input schema for an operation's field list.
// Unknown top-level fields are rejected so that caller mistakes fail fast.
func objectSchema(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	var required []any
	for _, f := range fields {
		props[f.Name] = f.schema()
		if f.Required {
			required = append(required, f.Name)
		}
	}
	s := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// coerce converts a raw value toward the declared type where the
// conversion is lossless. Values it cannot coerce are returned unchanged
// and left for schema validation to reject.
func (f Field) coerce(v any) any {
	switch f.Type {
	case Integer:
		if n, ok := toInt64(v); ok {
			return n
		}
	case Timestamp:
		if n, ok := toInt64(v); ok {
			return n
		}
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.UnixMilli()
			}
		}
	case Number:
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n
			}
		}
	case Boolean:
		if s, ok := v.(string); ok {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
		}
	case Object:
		if m, ok := v.(map[string]any); ok && f.Properties != nil {
			out := make(map[string]any, len(m))
			for k, val := range m {
				out[k] = val
			}
			for _, p := range f.Properties {
				if inner, present := out[p.Name]; present {
					out[p.Name] = p.coerce(inner)
				}
			}
			return out
		}
	}
	return v
}

// toInt64 accepts the integer representations JSON decoding can produce.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// checkEnum reports whether v is one of the declared legal values.
// Numeric values are compared by their int64 representation so that a
// JSON float64 matches a declared int.
func (f Field) checkEnum(v any) bool {
	if len(f.Enum) == 0 {
		return true
	}
	for _, legal := range f.Enum {
		if equalEnum(legal, v) {
			return true
		}
	}
	return false
}

func equalEnum(a, b any) bool {
	if an, ok := toInt64(a); ok {
		bn, ok2 := toInt64(b)
		return ok2 && an == bn
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
