package registry

import (
	"sort"

	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/llm"
)

// Builder holds the built-in tools and produces per-exchange Views. A View
// is the only tool surface a decision step ever sees, so whatever the View
// excludes simply does not exist for that exchange.
type Builder struct {
	builtins map[string]tool.Tool
}

func NewBuilder(builtins ...tool.Tool) *Builder {
	m := make(map[string]tool.Tool, len(builtins))
	for _, t := range builtins {
		m[t.Name()] = t
	}
	return &Builder{builtins: m}
}

// ViewOptions scope a View to one exchange.
type ViewOptions struct {
	// EnabledTools filters built-ins by name. Nil means all built-ins;
	// an empty non-nil slice means none.
	EnabledTools []string
	// Retrieval is the workspace-scoped retrieval tool, present only when
	// a workspace is selected and that workspace has retrieval enabled.
	Retrieval tool.Tool
}

// View is an immutable tool set for a single exchange.
type View struct {
	tools map[string]tool.Tool
}

// Build assembles the View for one exchange. Without a workspace the caller
// passes no Retrieval tool, so retrieval is structurally absent rather than
// merely disabled.
func (b *Builder) Build(opts ViewOptions) *View {
	tools := make(map[string]tool.Tool)
	if opts.EnabledTools == nil {
		for name, t := range b.builtins {
			tools[name] = t
		}
	} else {
		for _, name := range opts.EnabledTools {
			if t, ok := b.builtins[name]; ok {
				tools[name] = t
			}
		}
	}
	if opts.Retrieval != nil {
		tools[opts.Retrieval.Name()] = opts.Retrieval
	}
	return &View{tools: tools}
}

// Lookup resolves a tool by name within this View.
func (v *View) Lookup(name string) (tool.Tool, bool) {
	t, ok := v.tools[name]
	return t, ok
}

func (v *View) Len() int {
	return len(v.tools)
}

// Names returns the tool names in this View, sorted for stable prompts.
func (v *View) Names() []string {
	names := make([]string, 0, len(v.tools))
	for name := range v.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs renders the View as LLM tool declarations, sorted by name.
func (v *View) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(v.tools))
	for _, name := range v.Names() {
		t := v.tools[name]
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return specs
}
