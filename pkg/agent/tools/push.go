package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sidekick-ai-be/pkg/agent/tool"
)

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// PushTool sends a push notification to the user's device via Pushover.
type PushTool struct {
	userKey    string
	apiToken   string
	httpClient *http.Client
	baseURL    string
}

func NewPushTool(userKey, apiToken string) *PushTool {
	return &PushTool{
		userKey:    userKey,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    pushoverAPIURL,
	}
}

func (t *PushTool) Name() string { return "send_push_notification" }
func (t *PushTool) Description() string {
	return "Send a brief push notification to the user's device. Use it to deliver reminders or results the user asked to be notified about."
}
func (t *PushTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"message": tool.StringProperty("The notification text, kept short"),
	}, "message")
}

func (t *PushTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	message := strings.TrimSpace(tool.StringArg(args, "message"))
	if message == "" {
		return "", errors.New("message must not be empty")
	}
	if t.userKey == "" || t.apiToken == "" {
		return "", errors.New("push notifications are not configured")
	}

	form := url.Values{}
	form.Set("token", t.apiToken)
	form.Set("user", t.userKey)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("push API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return "notification sent", nil
}
