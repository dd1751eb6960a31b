// Package registry holds the named operations a tool server exposes and
// dispatches invocations to them.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("workspace-mcp/internal/registry")

// Handler runs one operation with arguments already coerced to the declared
// parameter types.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// ParamType is the JSON Schema type of a parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param declares one named parameter. A nil Default marks it as required.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Default     any
}

// Required reports whether callers must supply the parameter.
func (p Param) Required() bool { return p.Default == nil }

// Descriptor is the public, immutable view of a registered operation.
type Descriptor struct {
	Name        string
	Params      []Param
	Description string
}

// InputSchema renders the parameters as a JSON Schema object.
func (d Descriptor) InputSchema() json.RawMessage {
	props := make(map[string]any, len(d.Params))
	var required []string
	for _, p := range d.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Required() {
			required = append(required, p.Name)
		} else {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	b, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return b
}

type operation struct {
	desc    Descriptor
	handler Handler
}

// Registry is a set of operations kept in registration order. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ops   map[string]*operation
	order []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{ops: make(map[string]*operation)}
}

// Register adds an operation. It fails with ErrDuplicateOperation if name is
// already registered.
func (r *Registry) Register(name string, h Handler, params []Param, description string) error {
	if name == "" {
		return errors.New("registry: empty operation name")
	}
	if h == nil {
		return fmt.Errorf("registry: %s: nil handler", name)
	}
	ps := make([]Param, len(params))
	copy(ps, params)
	for i, p := range ps {
		if p.Default == nil {
			continue
		}
		v, err := coerce(p.Type, p.Default)
		if err != nil {
			return fmt.Errorf("registry: %s: default for %q: %w", name, p.Name, err)
		}
		ps[i].Default = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, name)
	}
	r.ops[name] = &operation{
		desc:    Descriptor{Name: name, Params: ps, Description: description},
		handler: h,
	}
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(name string, h Handler, params []Param, description string) {
	if err := r.Register(name, h, params, description); err != nil {
		panic(err)
	}
}

// List returns the descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.ops[name].desc)
	}
	return out
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	if !ok {
		return Descriptor{}, false
	}
	return op.desc, true
}

// Invoke coerces args against the operation's schema and calls its handler.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (result string, err error) {
	ctx, span := tracer.Start(ctx, "tool/"+name)
	span.SetAttributes(attribute.String("tool.name", name))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	r.mu.RLock()
	op, ok := r.ops[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	coerced, err := coerceArgs(op.desc, args)
	if err != nil {
		return "", err
	}
	return op.handler(ctx, coerced)
}
