package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/store"
)

// PassageSearcher finds the passages of a user's workspace most similar to
// a query.
type PassageSearcher interface {
	Search(ctx context.Context, query string, userId uuid.UUID, workspaceId uuid.UUID, topK int) ([]store.Passage, error)
}

// RetrievalTool searches the indexed documents of one workspace. A fresh
// instance is built per exchange, bound to that exchange's user and
// workspace, so the model can never reach across either boundary.
type RetrievalTool struct {
	searcher    PassageSearcher
	userId      uuid.UUID
	workspaceId uuid.UUID
	topK        int
}

func NewRetrievalTool(searcher PassageSearcher, userId, workspaceId uuid.UUID, topK int) *RetrievalTool {
	if topK <= 0 {
		topK = 5
	}
	return &RetrievalTool{searcher: searcher, userId: userId, workspaceId: workspaceId, topK: topK}
}

func (t *RetrievalTool) Name() string { return "search_workspace" }
func (t *RetrievalTool) Description() string {
	return "Search the documents indexed in the current workspace and return the most relevant passages."
}
func (t *RetrievalTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"query": tool.StringProperty("What to look for in the workspace documents"),
	}, "query")
}

func (t *RetrievalTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	query := strings.TrimSpace(tool.StringArg(args, "query"))
	if query == "" {
		return "", errors.New("query must not be empty")
	}

	passages, err := t.searcher.Search(ctx, query, t.userId, t.workspaceId, t.topK)
	if err != nil {
		return "", fmt.Errorf("workspace search failed: %w", err)
	}
	if len(passages) == 0 {
		return "No relevant passages found in this workspace.", nil
	}

	var sb strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&sb, "[%d] %s (score %.2f)\n%s\n\n", i+1, p.Title, p.Score, p.Content)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
