package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	ChunkSize        *int     `json:"chunk_size,omitempty" validate:"omitempty,min=100,max=8000"`
	ChunkOverlap     *int     `json:"chunk_overlap,omitempty" validate:"omitempty,min=0,max=2000"`
	RetrievalTopK    *int     `json:"retrieval_top_k,omitempty" validate:"omitempty,min=1,max=50"`
	RetrievalEnabled *bool    `json:"retrieval_enabled,omitempty"`
	EnabledTools     []string `json:"enabled_tools,omitempty"`
}

type UpdateWorkspaceRequest struct {
	Id               uuid.UUID `json:"-"`
	Name             *string   `json:"name,omitempty" validate:"omitempty,max=255"`
	ChunkSize        *int      `json:"chunk_size,omitempty" validate:"omitempty,min=100,max=8000"`
	ChunkOverlap     *int      `json:"chunk_overlap,omitempty" validate:"omitempty,min=0,max=2000"`
	RetrievalTopK    *int      `json:"retrieval_top_k,omitempty" validate:"omitempty,min=1,max=50"`
	RetrievalEnabled *bool     `json:"retrieval_enabled,omitempty"`
	EnabledTools     []string  `json:"enabled_tools,omitempty"`
}

type WorkspaceResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ChunkSize        int        `json:"chunk_size"`
	ChunkOverlap     int        `json:"chunk_overlap"`
	RetrievalTopK    int        `json:"retrieval_top_k"`
	RetrievalEnabled bool       `json:"retrieval_enabled"`
	EnabledTools     []string   `json:"enabled_tools,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
