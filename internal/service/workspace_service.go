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
	"sidekick-ai-be/pkg/events"
	"sidekick-ai-be/pkg/nats"
)

type IWorkspaceService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.WorkspaceResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WorkspaceResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type workspaceService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewWorkspaceService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *nats.Publisher,
	logger logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (c *workspaceService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.WorkspaceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	workspaces, err := uow.WorkspaceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.WorkspaceResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		result = append(result, workspaceToResponse(ws))
	}
	return result, nil
}

func (c *workspaceService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	cfg := entity.DefaultWorkspaceConfig()
	applyConfigOverrides(&cfg, req.ChunkSize, req.ChunkOverlap, req.RetrievalTopK, req.RetrievalEnabled, req.EnabledTools)

	workspace := entity.Workspace{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      req.Name,
		Config:    cfg,
		CreatedAt: time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.WorkspaceRepository().Create(ctx, &workspace); err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.TypeWorkspaceCreated, userId, workspace.Id)
	return workspaceToResponse(&workspace), nil
}

func (c *workspaceService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WorkspaceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	workspace, err := uow.WorkspaceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, nil // Not found
	}
	return workspaceToResponse(workspace), nil
}

func (c *workspaceService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	workspace, err := uow.WorkspaceRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, nil // Not found
	}

	if req.Name != nil {
		workspace.Name = *req.Name
	}
	applyConfigOverrides(&workspace.Config, req.ChunkSize, req.ChunkOverlap, req.RetrievalTopK, req.RetrievalEnabled, req.EnabledTools)
	now := time.Now()
	workspace.UpdatedAt = &now

	if err := uow.WorkspaceRepository().Update(ctx, workspace); err != nil {
		return nil, err
	}
	return workspaceToResponse(workspace), nil
}

// Delete removes the workspace together with its documents, embeddings and
// conversation history, in one transaction.
func (c *workspaceService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	workspace, err := uow.WorkspaceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if workspace == nil {
		return nil // Already gone
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByWorkspaceId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteByWorkspaceId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationTurnRepository().DeleteByWorkspaceId(ctx, id); err != nil {
		return err
	}
	if err := uow.WorkspaceRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.publishEvent(ctx, events.TypeWorkspaceDeleted, userId, id)
	return nil
}

func (c *workspaceService) publishEvent(ctx context.Context, eventType string, userId, workspaceId uuid.UUID) {
	if c.eventPublisher == nil {
		return
	}
	err := c.eventPublisher.Publish(ctx, events.NewEvent(eventType, map[string]interface{}{
		"user_id":      userId.String(),
		"workspace_id": workspaceId.String(),
	}))
	if err != nil {
		c.logger.Warn("workspace", "failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

func applyConfigOverrides(cfg *entity.WorkspaceConfig, chunkSize, chunkOverlap, topK *int, retrievalEnabled *bool, enabledTools []string) {
	if chunkSize != nil {
		cfg.ChunkSize = *chunkSize
	}
	if chunkOverlap != nil {
		cfg.ChunkOverlap = *chunkOverlap
	}
	if topK != nil {
		cfg.RetrievalTopK = *topK
	}
	if retrievalEnabled != nil {
		cfg.RetrievalEnabled = *retrievalEnabled
	}
	if enabledTools != nil {
		cfg.EnabledTools = enabledTools
	}
}

func workspaceToResponse(ws *entity.Workspace) *dto.WorkspaceResponse {
	return &dto.WorkspaceResponse{
		Id:               ws.Id,
		Name:             ws.Name,
		ChunkSize:        ws.Config.ChunkSize,
		ChunkOverlap:     ws.Config.ChunkOverlap,
		RetrievalTopK:    ws.Config.RetrievalTopK,
		RetrievalEnabled: ws.Config.RetrievalEnabled,
		EnabledTools:     ws.Config.EnabledTools,
		CreatedAt:        ws.CreatedAt,
		UpdatedAt:        ws.UpdatedAt,
	}
}
