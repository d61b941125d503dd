package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidekick-ai-be/pkg/agent/loop"
	"sidekick-ai-be/pkg/agent/tool"
)

func TestTurnsToDTOsCarryPersistedIdentity(t *testing.T) {
	userTurnId := uuid.New()
	assistantTurnId := uuid.New()
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	turns := []loop.Turn{
		{ID: userTurnId, Role: loop.RoleUser, Content: "hi", CreatedAt: createdAt},
		{
			ID:      assistantTurnId,
			Role:    loop.RoleAssistant,
			Content: "checking",
			Requests: []tool.Request{
				{ID: "call_0", Name: "web_search", Args: map[string]interface{}{"query": "hi"}},
			},
			CreatedAt: createdAt.Add(time.Second),
		},
	}

	dtos := turnsToDTOs(turns)
	require.Len(t, dtos, 2)

	assert.Equal(t, userTurnId, dtos[0].Id)
	assert.Equal(t, createdAt, dtos[0].CreatedAt)
	assert.Equal(t, assistantTurnId, dtos[1].Id)
	assert.Equal(t, createdAt.Add(time.Second), dtos[1].CreatedAt)
	require.Len(t, dtos[1].ToolCalls, 1)
	assert.Equal(t, "call_0", dtos[1].ToolCalls[0].Id)
}
