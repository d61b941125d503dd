package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemMentionsWorkspaceAndRetrieval(t *testing.T) {
	got := BuildSystem(Options{
		WorkspaceName:    "thesis",
		ToolNames:        []string{"read_file", "search_workspace"},
		RetrievalEnabled: true,
		Now:              time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, got, `workspace "thesis"`)
	assert.Contains(t, got, "search_workspace")
	assert.Contains(t, got, "Wednesday, 26 August 2026")
}

func TestBuildSystemWithoutWorkspaceExcludesRetrieval(t *testing.T) {
	got := BuildSystem(Options{ToolNames: []string{"web_search"}})

	assert.Contains(t, got, "No workspace is selected")
	assert.NotContains(t, got, "search_workspace")
}

func TestBuildSystemWithoutTools(t *testing.T) {
	got := BuildSystem(Options{})

	assert.Contains(t, got, "No tools are available")
}
