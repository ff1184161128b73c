package models

import (
	"time"

	"github.com/google/uuid"
)

type ChecklistItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TaskName  string     `gorm:"size:500;not null" json:"task_name"`
	Emoji     string     `gorm:"size:16" json:"emoji"`
	DueDate   *time.Time `gorm:"type:date;index" json:"due_date"`
	Completed bool       `gorm:"default:false" json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}
