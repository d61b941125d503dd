package contract

import (
	"context"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *entity.Workspace) error
	Update(ctx context.Context, workspace *entity.Workspace) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Workspace, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Workspace, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
