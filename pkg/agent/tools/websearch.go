package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sidekick-ai-be/pkg/agent/tool"
)

const serperSearchURL = "https://google.serper.dev/search"

// WebSearchTool queries the Serper search API.
type WebSearchTool struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

func NewWebSearchTool(apiKey string) *WebSearchTool {
	return &WebSearchTool{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    serperSearchURL,
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }
func (t *WebSearchTool) Description() string {
	return "Search the web and return the top organic results with titles, links and snippets."
}
func (t *WebSearchTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"query": tool.StringProperty("The search query"),
	}, "query")
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
}

func (t *WebSearchTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	query := strings.TrimSpace(tool.StringArg(args, "query"))
	if query == "" {
		return "", errors.New("query must not be empty")
	}
	if t.apiKey == "" {
		return "", errors.New("web search is not configured")
	}

	body, err := json.Marshal(map[string]interface{}{"q": query, "num": 5})
	if err != nil {
		return "", fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed serperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse search response: %w", err)
	}

	var sb strings.Builder
	if parsed.AnswerBox.Answer != "" {
		fmt.Fprintf(&sb, "Answer: %s\n\n", parsed.AnswerBox.Answer)
	} else if parsed.AnswerBox.Snippet != "" {
		fmt.Fprintf(&sb, "Answer: %s\n\n", parsed.AnswerBox.Snippet)
	}
	for i, item := range parsed.Organic {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s\n\n", i+1, item.Title, item.Link, item.Snippet)
	}
	if sb.Len() == 0 {
		return "No results found.", nil
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
