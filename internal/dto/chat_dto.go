package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	Message     string     `json:"message" validate:"required"`
	WorkspaceId *uuid.UUID `json:"workspace_id,omitempty"` // nil = no-workspace mode
}

type SendChatResponse struct {
	WorkspaceId      *uuid.UUID `json:"workspace_id,omitempty"`
	Answer           string     `json:"answer"`
	LimitReached     bool       `json:"limit_reached"`
	Iterations       int        `json:"iterations"`
	Turns            []TurnDTO  `json:"turns"`
	PersistenceError string     `json:"persistence_error,omitempty"` // Set when the exchange could not be saved
}

type TurnDTO struct {
	Id          uuid.UUID       `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content,omitempty"`
	ToolCalls   []ToolCallDTO   `json:"tool_calls,omitempty"`
	ToolResults []ToolResultDTO `json:"tool_results,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ToolCallDTO struct {
	Id   string                 `json:"id"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

type ToolResultDTO struct {
	RequestId string `json:"request_id"`
	Name      string `json:"name"`
	Ok        bool   `json:"ok"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}
