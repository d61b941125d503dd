package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/pkg/agent/tools"
	"sidekick-ai-be/pkg/embedding"
	"sidekick-ai-be/pkg/store"
)

// retrievalSearcher embeds the query and ranks workspace chunks by cosine
// similarity in the database.
type retrievalSearcher struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewRetrievalSearcher(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider) tools.PassageSearcher {
	return &retrievalSearcher{uowFactory: uowFactory, embeddingProvider: embeddingProvider}
}

func (r *retrievalSearcher) Search(ctx context.Context, query string, userId uuid.UUID, workspaceId uuid.UUID, topK int) ([]store.Passage, error) {
	res, err := r.embeddingProvider.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, res.Embedding.Values, topK, userId, workspaceId)
	if err != nil {
		return nil, err
	}

	passages := make([]store.Passage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, store.Passage{
			DocumentId: s.Embedding.DocumentId,
			Title:      s.Title,
			Content:    s.Embedding.ChunkText,
			Score:      s.Similarity,
		})
	}
	return passages, nil
}
