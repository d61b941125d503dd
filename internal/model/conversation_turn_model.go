package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationTurn struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index:idx_turns_user_workspace"`
	WorkspaceId *uuid.UUID     `gorm:"type:uuid;index:idx_turns_user_workspace"` // NULL = no-workspace mode
	Role        string         `gorm:"type:varchar(50);not null"`
	Content     string         `gorm:"type:text"`
	ToolCalls   datatypes.JSON `gorm:"type:jsonb"`
	ToolResults datatypes.JSON `gorm:"type:jsonb"`
	Seq         int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}
