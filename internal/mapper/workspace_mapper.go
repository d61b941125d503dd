package mapper

import (
	"encoding/json"
	"time"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/model"

	"gorm.io/datatypes"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) ToEntity(w *model.Workspace) *entity.Workspace {
	if w == nil {
		return nil
	}

	cfg := entity.DefaultWorkspaceConfig()
	if len(w.Config) > 0 {
		// Corrupt config falls back to defaults rather than failing the load
		_ = json.Unmarshal(w.Config, &cfg)
	}

	var updatedAt *time.Time
	if !w.UpdatedAt.IsZero() {
		t := w.UpdatedAt
		updatedAt = &t
	}

	return &entity.Workspace{
		Id:        w.Id,
		UserId:    w.UserId,
		Name:      w.Name,
		Config:    cfg,
		CreatedAt: w.CreatedAt,
		UpdatedAt: updatedAt,
		IsDeleted: w.DeletedAt.Valid,
	}
}

func (m *WorkspaceMapper) ToModel(w *entity.Workspace) *model.Workspace {
	if w == nil {
		return nil
	}

	cfgBytes, _ := json.Marshal(w.Config)

	out := &model.Workspace{
		Id:        w.Id,
		UserId:    w.UserId,
		Name:      w.Name,
		Config:    datatypes.JSON(cfgBytes),
		CreatedAt: w.CreatedAt,
	}
	if w.UpdatedAt != nil {
		out.UpdatedAt = *w.UpdatedAt
	}
	return out
}
