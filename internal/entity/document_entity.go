package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID
	WorkspaceId uuid.UUID
	UserId      uuid.UUID
	Title       string
	Content     string
	Indexed     bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
