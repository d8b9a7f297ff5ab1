// Package registry holds the operation registry: the single enumerable
// source of what this server can do. Every operation is declared once —
// name, argument fields, handler — and both the JSON schema served to
// clients and the argument validation are derived from that declaration.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrUnknownOperation is returned by Lookup for unregistered names.
var ErrUnknownOperation = errors.New("unknown operation")

// ValidationError reports malformed caller input. It is detected locally;
// no upstream call is made for a request that fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid arguments: %s: %s", e.Field, e.Message)
	}
	return "invalid arguments: " + e.Message
}

// Handler executes one operation against the upstream platform.
type Handler func(ctx context.Context, args Args) (any, error)

// Definition declares one operation.
type Definition struct {
	Name        string
	Title       string
	Description string
	Module      string // catalog module: case, alert, observable, task, cortex
	Fields      []Field
	Handler     Handler
}

// Operation is a registered, compiled operation.
type Operation struct {
	Definition
	schemaJSON []byte
	compiled   *jsonschema.Schema
}

// SchemaJSON returns the operation's input schema document.
func (op *Operation) SchemaJSON() json.RawMessage {
	return op.schemaJSON
}

// Validate checks and coerces raw arguments against the operation's
// declaration. It is a pure function of its input.
func (op *Operation) Validate(raw map[string]any) (Args, error) {
	declared := make(map[string]Field, len(op.Fields))
	for _, f := range op.Fields {
		declared[f.Name] = f
	}

	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, &ValidationError{Field: name, Message: "unknown field"}
		}
	}

	args := make(Args, len(raw))
	for k, v := range raw {
		args[k] = v
	}

	for _, f := range op.Fields {
		v, present := args[f.Name]
		if !present {
			if f.Default != nil {
				args[f.Name] = f.Default
			} else if f.Required {
				return nil, &ValidationError{Field: f.Name, Message: "missing required field"}
			}
			continue
		}
		coerced := f.coerce(v)
		if !f.checkEnum(coerced) {
			return nil, &ValidationError{
				Field:   f.Name,
				Message: fmt.Sprintf("value %v not in allowed set %v", v, f.Enum),
			}
		}
		args[f.Name] = coerced
	}

	// Schema validation backstops the declarative checks: wrong types,
	// nested required fields, malformed arrays.
	doc, err := json.Marshal(args)
	if err != nil {
		return nil, &ValidationError{Message: "arguments are not serializable: " + err.Error()}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, &ValidationError{Message: "arguments are not valid JSON: " + err.Error()}
	}
	if err := op.compiled.Validate(inst); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return args, nil
}

// Registry maps operation names to compiled operations. Built once at
// process start, read-only afterwards; safe for concurrent lookups.
type Registry struct {
	ops map[string]*Operation
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ops: make(map[string]*Operation)}
}

// Register compiles and adds an operation. A duplicate name or a field
// declaration that does not produce a valid schema is an error — callers
// treat either as startup-fatal, before any traffic is served.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return errors.New("registry: operation name is empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("registry: operation %q has no handler", def.Name)
	}
	if _, exists := r.ops[def.Name]; exists {
		return fmt.Errorf("registry: duplicate operation %q", def.Name)
	}

	schemaDoc := objectSchema(def.Fields)
	schemaJSON, err := json.Marshal(schemaDoc)
	if err != nil {
		return fmt.Errorf("registry: operation %q: encode schema: %w", def.Name, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("registry: operation %q: schema: %w", def.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	resource := "mem://" + def.Name + ".json"
	if err := compiler.AddResource(resource, inst); err != nil {
		return fmt.Errorf("registry: operation %q: schema: %w", def.Name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return fmt.Errorf("registry: operation %q: schema: %w", def.Name, err)
	}

	r.ops[def.Name] = &Operation{
		Definition: def,
		schemaJSON: schemaJSON,
		compiled:   compiled,
	}
	return nil
}

// RegisterAll registers a batch of definitions, stopping at the first error.
func (r *Registry) RegisterAll(defs []Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the operation for the given name.
func (r *Registry) Lookup(name string) (*Operation, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// Names returns all registered operation names, sorted for deterministic
// capability listings.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.ops)
}
