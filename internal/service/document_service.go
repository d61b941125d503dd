package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sidekick-ai-be/internal/dto"
	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/pkg/logger"
	"sidekick-ai-be/internal/repository/specification"
	"sidekick-ai-be/internal/repository/unitofwork"
)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Reindex(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           logger,
	}
}

// Upload stores the document and queues it for chunking and embedding. The
// document is queryable through retrieval only once the consumer has
// indexed it.
func (c *documentService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	workspace, err := uow.WorkspaceRepository().FindOne(ctx,
		specification.ByID{ID: req.WorkspaceId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	document := entity.Document{
		Id:          uuid.New(),
		WorkspaceId: workspace.Id,
		UserId:      userId,
		Title:       req.Title,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	c.queueIndexing(document.Id)
	return documentToResponse(&document), nil
}

func (c *documentService) GetAll(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByWorkspaceID{WorkspaceID: &workspaceId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		result = append(result, documentToResponse(doc))
	}
	return result, nil
}

func (c *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return nil // Already gone
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

// Reindex re-queues indexing, e.g. after the workspace chunking config
// changed.
func (c *documentService) Reindex(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil // Not found
	}

	document.Indexed = false
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	c.queueIndexing(document.Id)
	return documentToResponse(document), nil
}

func (c *documentService) queueIndexing(documentId uuid.UUID) {
	err := c.publisherService.Publish(dto.IndexDocumentMessage{DocumentId: documentId})
	if err != nil {
		// Indexing can be retried via Reindex; the upload itself succeeded.
		c.logger.Error("document", "failed to queue indexing", map[string]interface{}{
			"document_id": documentId.String(),
			"error":       err.Error(),
		})
	}
}

func documentToResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        doc.Id,
		Title:     doc.Title,
		Indexed:   doc.Indexed,
		CreatedAt: doc.CreatedAt,
	}
}
