package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByWorkspaceID matches rows scoped to one workspace. A nil WorkspaceID
// matches the no-workspace rows (NULL column), so both modes use the same
// query path without ever crossing the boundary.
type ByWorkspaceID struct {
	WorkspaceID *uuid.UUID
}

func (s ByWorkspaceID) Apply(db *gorm.DB) *gorm.DB {
	if s.WorkspaceID == nil {
		return db.Where("workspace_id IS NULL")
	}
	return db.Where("workspace_id = ?", *s.WorkspaceID)
}

// ByDocumentID filters embeddings by their parent document.
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
