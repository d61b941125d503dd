package mapper

import (
	"time"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:          d.Id,
		WorkspaceId: d.WorkspaceId,
		UserId:      d.UserId,
		Title:       d.Title,
		Content:     d.Content,
		Indexed:     d.Indexed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   updatedAt,
		IsDeleted:   d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	out := &model.Document{
		Id:          d.Id,
		WorkspaceId: d.WorkspaceId,
		UserId:      d.UserId,
		Title:       d.Title,
		Content:     d.Content,
		Indexed:     d.Indexed,
		CreatedAt:   d.CreatedAt,
	}
	if d.UpdatedAt != nil {
		out.UpdatedAt = *d.UpdatedAt
	}
	return out
}
