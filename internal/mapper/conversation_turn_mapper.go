package mapper

import (
	"encoding/json"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationTurnMapper struct{}

func NewConversationTurnMapper() *ConversationTurnMapper {
	return &ConversationTurnMapper{}
}

func (m *ConversationTurnMapper) ToEntity(t *model.ConversationTurn) *entity.ConversationTurn {
	if t == nil {
		return nil
	}

	var calls []entity.TurnToolCall
	if len(t.ToolCalls) > 0 {
		_ = json.Unmarshal(t.ToolCalls, &calls)
	}
	var results []entity.TurnToolResult
	if len(t.ToolResults) > 0 {
		_ = json.Unmarshal(t.ToolResults, &results)
	}

	return &entity.ConversationTurn{
		Id:          t.Id,
		UserId:      t.UserId,
		WorkspaceId: t.WorkspaceId,
		Role:        t.Role,
		Content:     t.Content,
		ToolCalls:   calls,
		ToolResults: results,
		Seq:         t.Seq,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ConversationTurnMapper) ToModel(t *entity.ConversationTurn) *model.ConversationTurn {
	if t == nil {
		return nil
	}

	out := &model.ConversationTurn{
		Id:          t.Id,
		UserId:      t.UserId,
		WorkspaceId: t.WorkspaceId,
		Role:        t.Role,
		Content:     t.Content,
		Seq:         t.Seq,
		CreatedAt:   t.CreatedAt,
	}

	if len(t.ToolCalls) > 0 {
		b, _ := json.Marshal(t.ToolCalls)
		out.ToolCalls = datatypes.JSON(b)
	}
	if len(t.ToolResults) > 0 {
		b, _ := json.Marshal(t.ToolResults)
		out.ToolResults = datatypes.JSON(b)
	}

	return out
}
