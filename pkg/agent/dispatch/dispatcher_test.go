package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
)

type fakeTool struct {
	name   string
	delay  time.Duration
	output string
	err    error
	panics bool
}

func (f *fakeTool) Name() string                   { return f.name }
func (f *fakeTool) Description() string            { return f.name }
func (f *fakeTool) Schema() map[string]interface{} { return tool.ObjectSchema(nil) }
func (f *fakeTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.output, f.err
}

func viewOf(tools ...tool.Tool) *registry.View {
	return registry.NewBuilder(tools...).Build(registry.ViewOptions{})
}

func TestDispatchPreservesRequestOrderUnderConcurrency(t *testing.T) {
	slow := &fakeTool{name: "slow", delay: 80 * time.Millisecond, output: "slow done"}
	fast := &fakeTool{name: "fast", output: "fast done"}
	d := NewDispatcher(time.Second, 8, true, nil)

	results := d.Dispatch(context.Background(), viewOf(slow, fast), []tool.Request{
		{ID: "call_0", Name: "slow"},
		{ID: "call_1", Name: "fast"},
	}, NewBudget(10))

	assert.Len(t, results, 2)
	assert.Equal(t, "call_0", results[0].RequestID)
	assert.Equal(t, "slow done", results[0].Output)
	assert.Equal(t, "call_1", results[1].RequestID)
	assert.Equal(t, "fast done", results[1].Output)
}

func TestDispatchUnknownToolBecomesFailureResult(t *testing.T) {
	d := NewDispatcher(time.Second, 8, false, nil)

	results := d.Dispatch(context.Background(), viewOf(), []tool.Request{
		{ID: "call_0", Name: "nope"},
	}, NewBudget(10))

	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "not available")
}

func TestDispatchToolErrorIsCaptured(t *testing.T) {
	broken := &fakeTool{name: "broken", err: errors.New("disk on fire")}
	d := NewDispatcher(time.Second, 8, false, nil)

	results := d.Dispatch(context.Background(), viewOf(broken), []tool.Request{
		{ID: "call_0", Name: "broken"},
	}, NewBudget(10))

	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "disk on fire")
}

func TestDispatchTimeoutBecomesFailureResult(t *testing.T) {
	slow := &fakeTool{name: "slow", delay: 200 * time.Millisecond}
	d := NewDispatcher(20*time.Millisecond, 8, false, nil)

	results := d.Dispatch(context.Background(), viewOf(slow), []tool.Request{
		{ID: "call_0", Name: "slow"},
	}, NewBudget(10))

	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "timed out")
}

func TestDispatchPanicIsRecovered(t *testing.T) {
	bad := &fakeTool{name: "bad", panics: true}
	d := NewDispatcher(time.Second, 8, false, nil)

	results := d.Dispatch(context.Background(), viewOf(bad), []tool.Request{
		{ID: "call_0", Name: "bad"},
	}, NewBudget(10))

	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "aborted")
}

func TestDispatchEnforcesPerTurnCap(t *testing.T) {
	echo := &fakeTool{name: "echo", output: "hi"}
	d := NewDispatcher(time.Second, 2, false, nil)

	var requests []tool.Request
	for i := 0; i < 4; i++ {
		requests = append(requests, tool.Request{ID: fmt.Sprintf("call_%d", i), Name: "echo"})
	}
	results := d.Dispatch(context.Background(), viewOf(echo), requests, NewBudget(10))

	assert.True(t, results[0].OK)
	assert.True(t, results[1].OK)
	assert.False(t, results[2].OK)
	assert.Contains(t, results[2].Error, "per-turn")
	assert.False(t, results[3].OK)
}

func TestDispatchEnforcesConversationBudget(t *testing.T) {
	echo := &fakeTool{name: "echo", output: "hi"}
	d := NewDispatcher(time.Second, 8, false, nil)
	budget := NewBudget(3)

	first := d.Dispatch(context.Background(), viewOf(echo), []tool.Request{
		{ID: "call_0", Name: "echo"},
		{ID: "call_1", Name: "echo"},
	}, budget)
	second := d.Dispatch(context.Background(), viewOf(echo), []tool.Request{
		{ID: "call_2", Name: "echo"},
		{ID: "call_3", Name: "echo"},
	}, budget)

	assert.True(t, first[0].OK)
	assert.True(t, first[1].OK)
	assert.True(t, second[0].OK)
	assert.False(t, second[1].OK)
	assert.Contains(t, second[1].Error, "budget")
}

func TestDispatchUnknownToolDoesNotConsumeBudget(t *testing.T) {
	echo := &fakeTool{name: "echo", output: "hi"}
	d := NewDispatcher(time.Second, 8, false, nil)
	budget := NewBudget(1)

	results := d.Dispatch(context.Background(), viewOf(echo), []tool.Request{
		{ID: "call_0", Name: "missing"},
		{ID: "call_1", Name: "echo"},
	}, budget)

	assert.False(t, results[0].OK)
	assert.True(t, results[1].OK)
}
