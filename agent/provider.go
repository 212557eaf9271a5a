// Package agent implements the conversation orchestrator: it drives a
// chat-completion service through repeated rounds of tool dispatch against
// the library's domain service until a plain-text reply is produced.
package agent

import (
	"context"
	"fmt"
)

// Message is one turn of the ordered conversation history.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a completion-service request to invoke one named operation.
// ID is the correlation id linking the call to its tool-result turn.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Request carries one completion round-trip to the provider. Automatic tool
// selection and parallel tool calls are always enabled.
type Request struct {
	Model        string
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
	MaxTokens    int
}

// Response is either final text or one-or-more requested tool calls.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider abstracts the chat-completion service.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// NewProvider builds a provider by name.
func NewProvider(name, apiKey string) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
