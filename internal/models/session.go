package models

import (
	"time"

	"github.com/google/uuid"
)

// Session groups the messages of one conversation. Rows are never updated.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "chat_sessions"
}
