package implementation

import (
	"context"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/mapper"
	"sidekick-ai-be/internal/model"
	"sidekick-ai-be/internal/repository/contract"
	"sidekick-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationTurnMapper
}

func NewConversationTurnRepository(db *gorm.DB) contract.ConversationTurnRepository {
	return &ConversationTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationTurnMapper(),
	}
}

func (r *ConversationTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationTurnRepositoryImpl) Create(ctx context.Context, turn *entity.ConversationTurn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConversationTurnRepositoryImpl) CreateBulk(ctx context.Context, turns []*entity.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	models := make([]*model.ConversationTurn, len(turns))
	for i, t := range turns {
		models[i] = r.mapper.ToModel(t)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*turns[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ConversationTurnRepositoryImpl) DeleteByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId).Delete(&model.ConversationTurn{}).Error
}

func (r *ConversationTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationTurn, error) {
	var models []*model.ConversationTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationTurn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ConversationTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ConversationTurn{}).Count(&count).Error
	return count, err
}

func (r *ConversationTurnRepositoryImpl) NextSeq(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) (int, error) {
	query := r.db.WithContext(ctx).Model(&model.ConversationTurn{}).Where("user_id = ?", userId)
	if workspaceId == nil {
		query = query.Where("workspace_id IS NULL")
	} else {
		query = query.Where("workspace_id = ?", *workspaceId)
	}

	var maxSeq *int
	if err := query.Select("MAX(seq)").Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	if maxSeq == nil {
		return 0, nil
	}
	return *maxSeq + 1, nil
}
