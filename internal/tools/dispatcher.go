package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"telco-callcenter-mcp/internal/schema"
)

// ErrUnknownTool is returned by Invoke when the tool name is not
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// ValidationError carries the ordered list of schema violations for a
// rejected invocation.
type ValidationError struct {
	Tool       string
	Violations []schema.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %d violation(s)", e.Tool, len(e.Violations))
}

// ContentBlock is one element of a tool result's content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Result is the serialized outcome of a successful tool invocation.
type Result struct {
	Content []ContentBlock `json:"content"`
}

// Dispatcher validates arguments against the registered input schema
// and runs the tool handler.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Invoke runs one tool. Error values are typed so the caller can map
// them onto protocol errors: ErrUnknownTool for an unregistered name,
// *ValidationError for schema rejection, *telco.DomainError for a
// backend failure.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (*Result, error) {
	desc, ok := d.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if violations := desc.validator.Validate(args); len(violations) > 0 {
		return nil, &ValidationError{Tool: name, Violations: violations}
	}
	// The validator already checks required properties; keep an
	// explicit presence pass so a schema edit that drops the required
	// list cannot silently let partial calls through.
	for _, req := range desc.InputSchema.Required {
		if _, present := args[req]; !present {
			return nil, &ValidationError{Tool: name, Violations: []schema.Violation{
				{Path: req, Message: "required property is missing"},
			}}
		}
	}

	data, derr := desc.handler(ctx, args)
	if derr != nil {
		return nil, derr
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize %s result: %w", name, err)
	}
	return &Result{Content: []ContentBlock{{Type: "text", Text: string(text)}}}, nil
}
