package loop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sidekick-ai-be/pkg/agent/dispatch"
	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/llm"
)

// LimitReachedAnswer ends an exchange that exhausted the iteration bound
// without a final answer from the model.
const LimitReachedAnswer = "I could not complete this request within the allotted number of reasoning steps. Please try rephrasing or splitting the request."

// ProtocolErrorAnswer ends an exchange in which the model produced neither
// content nor tool calls.
const ProtocolErrorAnswer = "Sorry, I received an empty response from the model and cannot continue this exchange."

// ErrPersistFailed wraps a storage failure at the end of an exchange. The
// computed answer is still returned alongside it.
var ErrPersistFailed = errors.New("failed to persist conversation turns")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn is one persisted entry of a conversation: a user message, an
// assistant message (possibly requesting tools), or one batch of tool
// results. ID and CreatedAt are assigned by the Store when the turn is
// persisted; they stay zero when persistence fails.
type Turn struct {
	ID        uuid.UUID
	Role      string
	Content   string
	Requests  []tool.Request
	Results   []tool.Result
	CreatedAt time.Time
}

// Key addresses one conversation. A nil WorkspaceID is the workspace-less
// conversation of that user, distinct from every workspace conversation.
type Key struct {
	UserID      uuid.UUID
	WorkspaceID *uuid.UUID
}

// Store persists conversation turns per Key. Append stamps ID and CreatedAt
// on every turn it successfully records.
type Store interface {
	Load(ctx context.Context, key Key) ([]Turn, error)
	Append(ctx context.Context, key Key, turns []Turn) error
}

// Outcome is the result of one exchange.
type Outcome struct {
	Answer     string
	Turns      []Turn
	LimitHit   bool
	Iterations int
}

// Config bounds one loop instance.
type Config struct {
	MaxIterations       int
	MaxToolCallsPerChat int
}

// Loop runs the decide-dispatch cycle for one exchange at a time. It never
// lets a tool failure or an exhausted bound escape as an error; those become
// degraded answers. Only storage failures surface, wrapped in
// ErrPersistFailed, and even then the answer is part of the Outcome.
type Loop struct {
	step       DecisionStep
	dispatcher *dispatch.Dispatcher
	store      Store
	cfg        Config
	logger     *log.Logger
}

func NewLoop(step DecisionStep, dispatcher *dispatch.Dispatcher, store Store, cfg Config, logger *log.Logger) *Loop {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 5
	}
	return &Loop{step: step, dispatcher: dispatcher, store: store, cfg: cfg, logger: logger}
}

// Respond runs one full exchange: load history, iterate decisions and tool
// dispatches up to the configured bound, then persist every turn produced.
func (l *Loop) Respond(ctx context.Context, key Key, view *registry.View, system string, message string) (*Outcome, error) {
	history, err := l.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	messages := historyToMessages(history)
	messages = append(messages, llm.Message{Role: RoleUser, Content: message})

	pending := []Turn{{Role: RoleUser, Content: message}}
	budget := dispatch.NewBudget(l.remainingBudget(history))

	outcome := &Outcome{}
	final := ""

	for outcome.Iterations < l.cfg.MaxIterations {
		outcome.Iterations++

		decision, err := l.step.Decide(ctx, system, view.Specs(), messages)
		if errors.Is(err, ErrEmptyDecision) {
			final = ProtocolErrorAnswer
			break
		}
		if err != nil {
			// Transient model failures burn an iteration so a
			// persistently failing provider still terminates.
			if l.logger != nil {
				l.logger.Printf("decision step failed (iteration %d): %v", outcome.Iterations, err)
			}
			continue
		}

		if decision.Final() {
			final = decision.Content
			break
		}

		pending = append(pending, Turn{
			Role:     RoleAssistant,
			Content:  decision.Content,
			Requests: decision.Requests,
		})
		messages = append(messages, llm.Message{
			Role:      RoleAssistant,
			Content:   decision.Content,
			ToolCalls: requestsToCalls(decision.Requests),
		})

		results := l.dispatcher.Dispatch(ctx, view, decision.Requests, budget)
		pending = append(pending, Turn{Role: RoleTool, Results: results})
		for _, res := range results {
			messages = append(messages, llm.Message{
				Role:     RoleTool,
				Content:  resultContent(res),
				ToolName: res.Name,
			})
		}
	}

	if final == "" {
		final = LimitReachedAnswer
		outcome.LimitHit = true
	}
	pending = append(pending, Turn{Role: RoleAssistant, Content: final})

	outcome.Answer = final
	outcome.Turns = pending

	if err := l.store.Append(ctx, key, pending); err != nil {
		return outcome, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return outcome, nil
}

// remainingBudget charges tool calls already made in this conversation
// against the per-conversation budget.
func (l *Loop) remainingBudget(history []Turn) int {
	if l.cfg.MaxToolCallsPerChat <= 0 {
		return int(^uint(0) >> 1)
	}
	used := 0
	for _, t := range history {
		used += len(t.Results)
	}
	remaining := l.cfg.MaxToolCallsPerChat - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func historyToMessages(history []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, t := range history {
		switch t.Role {
		case RoleTool:
			for _, res := range t.Results {
				messages = append(messages, llm.Message{
					Role:     RoleTool,
					Content:  resultContent(res),
					ToolName: res.Name,
				})
			}
		case RoleAssistant:
			messages = append(messages, llm.Message{
				Role:      RoleAssistant,
				Content:   t.Content,
				ToolCalls: requestsToCalls(t.Requests),
			})
		default:
			messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
		}
	}
	return messages
}

func requestsToCalls(requests []tool.Request) []llm.ToolCall {
	if len(requests) == 0 {
		return nil
	}
	calls := make([]llm.ToolCall, 0, len(requests))
	for _, req := range requests {
		calls = append(calls, llm.ToolCall{ID: req.ID, Name: req.Name, Args: req.Args})
	}
	return calls
}

func resultContent(res tool.Result) string {
	if res.OK {
		return res.Output
	}
	return "error: " + res.Error
}
