package entity

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is an isolated context ("folder") with its own document index,
// configuration, and conversation history.
type Workspace struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	Config    WorkspaceConfig
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// WorkspaceConfig is read once per exchange when building the system context
// and the tool registry view. It is never mutated mid-loop.
type WorkspaceConfig struct {
	ChunkSize        int      `json:"chunk_size"`
	ChunkOverlap     int      `json:"chunk_overlap"`
	RetrievalTopK    int      `json:"retrieval_top_k"`
	RetrievalEnabled bool     `json:"retrieval_enabled"`
	EnabledTools     []string `json:"enabled_tools"` // nil means "all built-ins"
}

func DefaultWorkspaceConfig() WorkspaceConfig {
	return WorkspaceConfig{
		ChunkSize:        1000,
		ChunkOverlap:     200,
		RetrievalTopK:    5,
		RetrievalEnabled: true,
	}
}
