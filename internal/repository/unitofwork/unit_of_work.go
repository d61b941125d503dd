package unitofwork

import (
	"context"

	"sidekick-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkspaceRepository() contract.WorkspaceRepository
	ConversationTurnRepository() contract.ConversationTurnRepository
	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
}
