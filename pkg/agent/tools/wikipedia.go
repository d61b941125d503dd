package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sidekick-ai-be/pkg/agent/tool"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// WikipediaTool looks up article extracts through the MediaWiki API.
type WikipediaTool struct {
	httpClient *http.Client
	baseURL    string
}

func NewWikipediaTool() *WikipediaTool {
	return &WikipediaTool{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    wikipediaAPIURL,
	}
}

func (t *WikipediaTool) Name() string { return "wikipedia" }
func (t *WikipediaTool) Description() string {
	return "Look up a topic on Wikipedia and return the introductory extract of the best matching article."
}
func (t *WikipediaTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"topic": tool.StringProperty("The topic to look up"),
	}, "topic")
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing *struct{} `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

func (t *WikipediaTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	topic := strings.TrimSpace(tool.StringArg(args, "topic"))
	if topic == "" {
		return "", errors.New("topic must not be empty")
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create wikipedia request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read wikipedia response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia API returned status %d", resp.StatusCode)
	}

	var parsed wikipediaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse wikipedia response: %w", err)
	}

	for _, page := range parsed.Query.Pages {
		if page.Missing != nil || page.Extract == "" {
			continue
		}
		return fmt.Sprintf("%s\n\n%s", page.Title, truncate(page.Extract, maxCodeOutputBytes)), nil
	}
	return fmt.Sprintf("No Wikipedia article found for %q.", topic), nil
}
