package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidekick-ai-be/pkg/agent/dispatch"
	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/llm"
)

type echoTool struct{ name string }

func (e echoTool) Name() string                   { return e.name }
func (e echoTool) Description() string            { return e.name }
func (e echoTool) Schema() map[string]interface{} { return tool.ObjectSchema(nil) }
func (e echoTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	return "ok", nil
}

// scriptedStep replays a fixed sequence of decisions or errors.
type scriptedStep struct {
	decisions []*Decision
	errs      []error
	calls     int
}

func (s *scriptedStep) Decide(ctx context.Context, system string, tools []llm.ToolSpec, history []llm.Message) (*Decision, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.decisions) {
		return s.decisions[i], nil
	}
	return &Decision{Content: "fallback"}, nil
}

type memStore struct {
	turns     map[string][]Turn
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{turns: map[string][]Turn{}}
}

func (m *memStore) keyOf(key Key) string {
	if key.WorkspaceID == nil {
		return key.UserID.String() + ":none"
	}
	return key.UserID.String() + ":" + key.WorkspaceID.String()
}

func (m *memStore) Load(ctx context.Context, key Key) ([]Turn, error) {
	return m.turns[m.keyOf(key)], nil
}

func (m *memStore) Append(ctx context.Context, key Key, turns []Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	for i := range turns {
		turns[i].ID = uuid.New()
		turns[i].CreatedAt = time.Now()
	}
	m.turns[m.keyOf(key)] = append(m.turns[m.keyOf(key)], turns...)
	return nil
}

func testView() *registry.View {
	return registry.NewBuilder(echoTool{"web_search"}).Build(registry.ViewOptions{})
}

func testDispatcher() *dispatch.Dispatcher {
	return dispatch.NewDispatcher(time.Second, 8, false, nil)
}

func testKey() Key {
	return Key{UserID: uuid.New()}
}

func TestRespondToolThenFinalAnswer(t *testing.T) {
	step := &scriptedStep{decisions: []*Decision{
		{Requests: []tool.Request{{ID: "call_0", Name: "web_search", Args: map[string]interface{}{"query": "pasta water"}}}},
		{Content: "Salt the water once it boils."},
	}}
	store := newMemStore()
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5, MaxToolCallsPerChat: 20}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "how much salt for pasta?")

	require.NoError(t, err)
	assert.Equal(t, "Salt the water once it boils.", outcome.Answer)
	assert.False(t, outcome.LimitHit)
	assert.Equal(t, 2, outcome.Iterations)

	// user, assistant(tool call), tool results, final assistant
	require.Len(t, outcome.Turns, 4)
	assert.Equal(t, RoleUser, outcome.Turns[0].Role)
	assert.Equal(t, RoleAssistant, outcome.Turns[1].Role)
	assert.Len(t, outcome.Turns[1].Requests, 1)
	assert.Equal(t, RoleTool, outcome.Turns[2].Role)
	require.Len(t, outcome.Turns[2].Results, 1)
	assert.True(t, outcome.Turns[2].Results[0].OK)
	assert.Equal(t, RoleAssistant, outcome.Turns[3].Role)
}

func TestRespondDirectAnswerWithoutTools(t *testing.T) {
	step := &scriptedStep{decisions: []*Decision{{Content: "Hello!"}}}
	store := newMemStore()
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello!", outcome.Answer)
	assert.Equal(t, 1, outcome.Iterations)
	require.Len(t, outcome.Turns, 2)
}

func TestRespondTerminatesAtIterationBound(t *testing.T) {
	// A step that always requests tools must be cut off at the bound.
	always := &scriptedStep{}
	for i := 0; i < 10; i++ {
		always.decisions = append(always.decisions, &Decision{
			Requests: []tool.Request{{ID: "call_0", Name: "web_search"}},
		})
	}
	store := newMemStore()
	l := NewLoop(always, testDispatcher(), store, Config{MaxIterations: 3, MaxToolCallsPerChat: 20}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "loop forever")

	require.NoError(t, err)
	assert.True(t, outcome.LimitHit)
	assert.Equal(t, LimitReachedAnswer, outcome.Answer)
	assert.Equal(t, 3, outcome.Iterations)

	toolTurns := 0
	for _, turn := range outcome.Turns {
		if turn.Role == RoleTool {
			toolTurns++
		}
	}
	assert.Equal(t, 3, toolTurns)
	assert.Equal(t, RoleAssistant, outcome.Turns[len(outcome.Turns)-1].Role)
	assert.Equal(t, LimitReachedAnswer, outcome.Turns[len(outcome.Turns)-1].Content)
}

func TestRespondEmptyDecisionEndsExchange(t *testing.T) {
	step := &scriptedStep{errs: []error{ErrEmptyDecision}}
	store := newMemStore()
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "hi")

	require.NoError(t, err)
	assert.Equal(t, ProtocolErrorAnswer, outcome.Answer)
	require.Len(t, outcome.Turns, 2)
	assert.Equal(t, ProtocolErrorAnswer, outcome.Turns[1].Content)
}

func TestRespondTransientDecisionErrorBurnsIteration(t *testing.T) {
	step := &scriptedStep{
		errs:      []error{errors.New("upstream 503"), nil},
		decisions: []*Decision{nil, {Content: "recovered"}},
	}
	store := newMemStore()
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "hi")

	require.NoError(t, err)
	assert.Equal(t, "recovered", outcome.Answer)
	assert.Equal(t, 2, outcome.Iterations)
}

func TestRespondPersistFailureStillReturnsAnswer(t *testing.T) {
	step := &scriptedStep{decisions: []*Decision{{Content: "the answer"}}}
	store := newMemStore()
	store.appendErr = errors.New("connection refused")
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	outcome, err := l.Respond(context.Background(), testKey(), testView(), "sys", "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistFailed))
	require.NotNil(t, outcome)
	assert.Equal(t, "the answer", outcome.Answer)
}

func TestRespondChargesHistoryAgainstBudget(t *testing.T) {
	key := testKey()
	store := newMemStore()
	// Conversation already spent 19 of 20 tool calls.
	var spent []Turn
	for i := 0; i < 19; i++ {
		spent = append(spent, Turn{Role: RoleTool, Results: []tool.Result{{RequestID: "call_0", Name: "web_search", OK: true}}})
	}
	require.NoError(t, store.Append(context.Background(), key, spent))

	step := &scriptedStep{decisions: []*Decision{
		{Requests: []tool.Request{
			{ID: "call_0", Name: "web_search"},
			{ID: "call_1", Name: "web_search"},
		}},
		{Content: "done"},
	}}
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5, MaxToolCallsPerChat: 20}, nil)

	outcome, err := l.Respond(context.Background(), key, testView(), "sys", "hi")

	require.NoError(t, err)
	var results []tool.Result
	for _, turn := range outcome.Turns {
		if turn.Role == RoleTool {
			results = turn.Results
		}
	}
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "budget")
}

func TestRespondIsolatesConversationsByKey(t *testing.T) {
	store := newMemStore()
	step := &scriptedStep{decisions: []*Decision{{Content: "a"}, {Content: "b"}}}
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	user := uuid.New()
	ws := uuid.New()
	_, err := l.Respond(context.Background(), Key{UserID: user}, testView(), "sys", "no workspace")
	require.NoError(t, err)
	_, err = l.Respond(context.Background(), Key{UserID: user, WorkspaceID: &ws}, testView(), "sys", "with workspace")
	require.NoError(t, err)

	noWs, _ := store.Load(context.Background(), Key{UserID: user})
	withWs, _ := store.Load(context.Background(), Key{UserID: user, WorkspaceID: &ws})
	require.Len(t, noWs, 2)
	require.Len(t, withWs, 2)
	assert.Equal(t, "no workspace", noWs[0].Content)
	assert.Equal(t, "with workspace", withWs[0].Content)
}

func TestRespondExposesPersistedTurnIdentity(t *testing.T) {
	store := newMemStore()
	step := &scriptedStep{decisions: []*Decision{{Content: "done"}}}
	l := NewLoop(step, testDispatcher(), store, Config{MaxIterations: 5}, nil)

	key := Key{UserID: uuid.New()}
	outcome, err := l.Respond(context.Background(), key, testView(), "sys", "hello")
	require.NoError(t, err)

	saved, _ := store.Load(context.Background(), key)
	require.Len(t, saved, len(outcome.Turns))
	for i, turn := range outcome.Turns {
		assert.Equal(t, saved[i].ID, turn.ID)
		assert.False(t, turn.CreatedAt.IsZero())
	}
}
