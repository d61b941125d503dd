package loop

import (
	"context"
	"errors"
	"time"

	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/llm"
)

// ErrEmptyDecision marks a model completion that carries neither content
// nor tool calls. The loop treats it as unrecoverable for the exchange.
var ErrEmptyDecision = errors.New("model returned neither content nor tool calls")

// Decision is one model step: either a final answer (no requests) or a set
// of tool requests to dispatch before deciding again.
type Decision struct {
	Content  string
	Requests []tool.Request
}

// Final reports whether the decision ends the exchange.
func (d *Decision) Final() bool {
	return len(d.Requests) == 0
}

// DecisionStep produces one Decision from the system prompt, the advertised
// tools and the conversation so far.
type DecisionStep interface {
	Decide(ctx context.Context, system string, tools []llm.ToolSpec, history []llm.Message) (*Decision, error)
}

// LLMDecisionStep asks an LLM provider to decide, bounded by a timeout.
type LLMDecisionStep struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

func NewLLMDecisionStep(provider llm.LLMProvider, timeout time.Duration) *LLMDecisionStep {
	return &LLMDecisionStep{provider: provider, timeout: timeout}
}

func (s *LLMDecisionStep) Decide(ctx context.Context, system string, tools []llm.ToolSpec, history []llm.Message) (*Decision, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)

	completion, err := s.provider.ChatWithTools(ctx, messages, tools)
	if err != nil {
		return nil, err
	}
	if completion.Content == "" && len(completion.ToolCalls) == 0 {
		return nil, ErrEmptyDecision
	}

	requests := make([]tool.Request, 0, len(completion.ToolCalls))
	for _, call := range completion.ToolCalls {
		requests = append(requests, tool.Request{ID: call.ID, Name: call.Name, Args: call.Args})
	}
	return &Decision{Content: completion.Content, Requests: requests}, nil
}
