package contract

import (
	"context"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationTurnRepository interface {
	Create(ctx context.Context, turn *entity.ConversationTurn) error
	CreateBulk(ctx context.Context, turns []*entity.ConversationTurn) error
	DeleteByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// NextSeq returns the sequence number the next appended turn should take
	// for one (user, workspace) history.
	NextSeq(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) (int, error)
}
