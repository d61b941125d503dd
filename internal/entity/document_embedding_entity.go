package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentEmbedding struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int
	ChunkText  string
	Embedding  []float32
	CreatedAt  time.Time
	DeletedAt  *time.Time
}
