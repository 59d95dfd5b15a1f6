package tools

import (
	"context"
	"fmt"
	"sort"

	"playcheck/internal/models"
)

// ParameterDef describes one input parameter of a tool.
type ParameterDef struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string" | "number" | "integer" | "boolean"
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Spec is the declaration the model sees: name, description and input schema.
type Spec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []ParameterDef `json:"parameters"`
}

// Tool is a capability the reasoning step can invoke. Failures are reported
// inside the returned map under "error"; Call has no error return.
type Tool interface {
	Spec() Spec
	Call(ctx context.Context, args map[string]any) map[string]string
}

// Registry resolves tool calls by name.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		r.tools[t.Spec().Name] = t
	}
	return r
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Specs returns the declarations of every registered tool, sorted by name.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.tools))
	for _, t := range r.tools {
		specs = append(specs, t.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Execute runs a tool call. An unknown tool yields an error-shaped output.
func (r *Registry) Execute(ctx context.Context, call models.ToolCall) map[string]string {
	t, ok := r.Lookup(call.Name)
	if !ok {
		return map[string]string{"error": fmt.Sprintf("unknown tool: %s", call.Name)}
	}
	return t.Call(ctx, call.Args)
}
