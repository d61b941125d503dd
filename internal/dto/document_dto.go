package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentRequest struct {
	WorkspaceId uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=255"`
	Content     string    `json:"content" validate:"required"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Indexed   bool      `json:"indexed"`
	CreatedAt time.Time `json:"created_at"`
}

// IndexDocumentMessage is the payload published to the in-process bus when a
// document needs (re)indexing.
type IndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
