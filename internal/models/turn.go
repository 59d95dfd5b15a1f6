package models

import (
	"github.com/google/uuid"
)

// Role tags the origin of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured request, embedded in an assistant reply, naming a
// tool and its arguments.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Turn is one message in the conversation.
type Turn struct {
	ID         uuid.UUID  `json:"id"`
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	// Name is the tool a RoleTool turn answers.
	Name string `json:"name,omitempty"`
	// Output is the structured tool result behind Content.
	Output map[string]string `json:"output,omitempty"`
}

func NewUserTurn(content string) Turn {
	return Turn{ID: uuid.New(), Role: RoleUser, Content: content}
}

func NewAssistantTurn(content string, calls ...ToolCall) Turn {
	return Turn{ID: uuid.New(), Role: RoleAssistant, Content: content, ToolCalls: calls}
}

func NewToolTurn(call ToolCall, content string, output map[string]string) Turn {
	return Turn{
		ID:         uuid.New(),
		Role:       RoleTool,
		Content:    content,
		ToolCallID: call.ID,
		Name:       call.Name,
		Output:     output,
	}
}

// HasToolCalls reports whether an assistant turn requests a tool.
func (t Turn) HasToolCalls() bool {
	return t.Role == RoleAssistant && len(t.ToolCalls) > 0
}

// Renderable reports whether the Session Loop prints this turn.
func (t Turn) Renderable() bool {
	return t.Role == RoleAssistant || t.Role == RoleTool
}
