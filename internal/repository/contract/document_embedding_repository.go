package contract

import (
	"context"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding pairs an embedding row with its cosine similarity
// against the query vector.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Title      string
	Similarity float64
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	DeleteByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar ranks chunks of one (user, workspace) document index by
	// cosine similarity. Rows outside that scope are never visible.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, workspaceId uuid.UUID) ([]*ScoredDocumentEmbedding, error)
}
