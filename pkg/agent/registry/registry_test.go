package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"sidekick-ai-be/pkg/agent/tool"
)

type stubTool struct{ name string }

func (s stubTool) Name() string                   { return s.name }
func (s stubTool) Description() string            { return "stub " + s.name }
func (s stubTool) Schema() map[string]interface{} { return tool.ObjectSchema(nil) }
func (s stubTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	return "", nil
}

func TestBuildDefaultsToAllBuiltins(t *testing.T) {
	b := NewBuilder(stubTool{"read_file"}, stubTool{"web_search"})

	view := b.Build(ViewOptions{})

	assert.Equal(t, 2, view.Len())
	assert.Equal(t, []string{"read_file", "web_search"}, view.Names())
}

func TestBuildFiltersByEnabledTools(t *testing.T) {
	b := NewBuilder(stubTool{"read_file"}, stubTool{"web_search"}, stubTool{"push"})

	view := b.Build(ViewOptions{EnabledTools: []string{"web_search", "unknown"}})

	assert.Equal(t, []string{"web_search"}, view.Names())
	_, ok := view.Lookup("read_file")
	assert.False(t, ok)
}

func TestBuildEmptyEnabledMeansNone(t *testing.T) {
	b := NewBuilder(stubTool{"read_file"})

	view := b.Build(ViewOptions{EnabledTools: []string{}})

	assert.Equal(t, 0, view.Len())
}

func TestBuildWithoutRetrievalToolOmitsRetrieval(t *testing.T) {
	b := NewBuilder(stubTool{"read_file"})

	view := b.Build(ViewOptions{})

	_, ok := view.Lookup("search_workspace")
	assert.False(t, ok, "retrieval must be absent when no retrieval tool is supplied")
}

func TestBuildWithRetrievalToolIncludesIt(t *testing.T) {
	b := NewBuilder(stubTool{"read_file"})

	view := b.Build(ViewOptions{Retrieval: stubTool{"search_workspace"}})

	_, ok := view.Lookup("search_workspace")
	assert.True(t, ok)
	assert.Equal(t, []string{"read_file", "search_workspace"}, view.Names())
}

func TestSpecsAreSortedAndComplete(t *testing.T) {
	b := NewBuilder(stubTool{"web_search"}, stubTool{"read_file"})

	specs := b.Build(ViewOptions{}).Specs()

	assert.Len(t, specs, 2)
	assert.Equal(t, "read_file", specs[0].Name)
	assert.Equal(t, "web_search", specs[1].Name)
	assert.Equal(t, "stub read_file", specs[0].Description)
	assert.NotNil(t, specs[0].Parameters)
}
