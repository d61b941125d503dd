package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role      string // "user", "assistant", "system", "tool"
	Content   string
	ToolCalls []ToolCall // set on assistant messages that request tools
	ToolName  string     // set on tool messages carrying a result
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// ToolSpec advertises a callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema of the arguments
}

// Completion is the outcome of one model step: either content, tool calls,
// or both.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the text response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatWithTools advertises the given tools and returns the model's
	// completion, which may carry tool-call requests instead of (or
	// alongside) content
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
