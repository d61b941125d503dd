package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidekick-ai-be/pkg/llm"
	"sidekick-ai-be/pkg/llm/ollama"
)

// Requires a local Ollama with a tool-capable model pulled. Skipped unless
// OLLAMA_INTEGRATION_MODEL is set (e.g. "qwen2.5").
func ollamaProvider(t *testing.T) (llm.LLMProvider, string) {
	t.Helper()
	model := os.Getenv("OLLAMA_INTEGRATION_MODEL")
	if model == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION_MODEL not set")
	}
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return ollama.NewOllamaProvider(baseURL, model), model
}

func TestOllamaChat(t *testing.T) {
	provider, _ := ollamaProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answer, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Answer with a single word."},
		{Role: "user", Content: "What is the capital of France?"},
	})
	require.NoError(t, err)
	assert.Contains(t, answer, "Paris")
}

func TestOllamaChatWithTools(t *testing.T) {
	provider, _ := ollamaProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tools := []llm.ToolSpec{{
		Name:        "get_weather",
		Description: "Get the current weather for a city",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city": map[string]interface{}{"type": "string"},
			},
			"required": []string{"city"},
		},
	}}

	completion, err := provider.ChatWithTools(ctx, []llm.Message{
		{Role: "user", Content: "What's the weather in Berlin right now? Use the tool."},
	}, tools)
	require.NoError(t, err)
	require.NotNil(t, completion)

	// A tool-capable model should request the declared tool.
	if assert.NotEmpty(t, completion.ToolCalls) {
		assert.Equal(t, "get_weather", completion.ToolCalls[0].Name)
	}
}
