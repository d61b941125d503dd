package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationTurn is one ordered record of the per-(user, workspace)
// append-only history. WorkspaceId is nil in no-workspace mode.
type ConversationTurn struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	WorkspaceId *uuid.UUID
	Role        string // user / assistant / tool
	Content     string
	ToolCalls   []TurnToolCall
	ToolResults []TurnToolResult
	Seq         int
	CreatedAt   time.Time
}

// TurnToolCall is a tool invocation requested by an assistant turn.
type TurnToolCall struct {
	Id   string                 `json:"id"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// TurnToolResult is the recorded outcome of one invocation, appended before
// the next decision step runs so the model observes it.
type TurnToolResult struct {
	RequestId string `json:"request_id"`
	Name      string `json:"name"`
	Ok        bool   `json:"ok"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}
