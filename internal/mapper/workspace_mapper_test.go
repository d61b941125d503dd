package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/model"
)

func TestWorkspaceConfigRoundTrip(t *testing.T) {
	m := NewWorkspaceMapper()

	ws := &entity.Workspace{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "research",
		Config: entity.WorkspaceConfig{
			ChunkSize:        800,
			ChunkOverlap:     100,
			RetrievalTopK:    3,
			RetrievalEnabled: false,
			EnabledTools:     []string{"web_search", "wikipedia"},
		},
		CreatedAt: time.Now(),
	}

	got := m.ToEntity(m.ToModel(ws))
	require.NotNil(t, got)
	assert.Equal(t, ws.Config, got.Config)
	assert.Equal(t, ws.Name, got.Name)
}

func TestWorkspaceCorruptConfigFallsBackToDefaults(t *testing.T) {
	m := NewWorkspaceMapper()

	got := m.ToEntity(&model.Workspace{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "broken",
		Config: datatypes.JSON([]byte(`{"chunk_size": "not a number"`)),
	})

	require.NotNil(t, got)
	assert.Equal(t, entity.DefaultWorkspaceConfig(), got.Config)
}

func TestWorkspaceEmptyConfigGetsDefaults(t *testing.T) {
	m := NewWorkspaceMapper()

	got := m.ToEntity(&model.Workspace{Id: uuid.New(), UserId: uuid.New(), Name: "fresh"})

	require.NotNil(t, got)
	assert.Equal(t, entity.DefaultWorkspaceConfig(), got.Config)
	assert.True(t, got.Config.RetrievalEnabled)
	assert.Nil(t, got.Config.EnabledTools)
}

func TestConversationTurnToolPayloadRoundTrip(t *testing.T) {
	m := NewConversationTurnMapper()
	wsId := uuid.New()

	turn := &entity.ConversationTurn{
		Id:          uuid.New(),
		UserId:      uuid.New(),
		WorkspaceId: &wsId,
		Role:        "assistant",
		Content:     "let me check",
		ToolCalls: []entity.TurnToolCall{
			{Id: "call_0", Name: "web_search", Args: map[string]interface{}{"query": "pasta"}},
		},
		ToolResults: []entity.TurnToolResult{
			{RequestId: "call_0", Name: "web_search", Ok: false, Error: "timed out"},
		},
		Seq:       4,
		CreatedAt: time.Now(),
	}

	got := m.ToEntity(m.ToModel(turn))
	require.NotNil(t, got)
	assert.Equal(t, turn.ToolCalls, got.ToolCalls)
	assert.Equal(t, turn.ToolResults, got.ToolResults)
	assert.Equal(t, turn.Seq, got.Seq)
	require.NotNil(t, got.WorkspaceId)
	assert.Equal(t, wsId, *got.WorkspaceId)
}
