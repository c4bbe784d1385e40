// Package llm defines the model provider abstraction used by the
// generation loop.
package llm

import "context"

// Message represents a single message in a model conversation.
type Message struct {
	// Role is one of "system", "user", "assistant", or "tool".
	Role string

	// Content is the text content of the message.
	Content string

	// ToolCalls contains tool invocations requested by the assistant.
	ToolCalls []ToolCall

	// ToolCallID is set when Role is "tool", identifying which tool
	// call this responds to.
	ToolCallID string
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned identifier for this call. Results are
	// matched back by this ID, never by position.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the JSON-encoded arguments string.
	Arguments string
}

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string

	// Parameters is the JSON Schema describing the tool's input.
	Parameters map[string]interface{}
}

// CompletionRequest is one step of a conversation sent to the model.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	Tools        []ToolDefinition
	Temperature  float64
}

// Finish reasons reported on the terminal chunk of a stream.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
	FinishError     = "error"
)

// Chunk is one increment of a streamed completion. Text carries a
// delta; ToolCalls is only populated on the terminal chunk, fully
// accumulated.
type Chunk struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason string
}

// Provider streams chat completions with tool calling.
type Provider interface {
	StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan Chunk, error)
}
