package models

import (
	"time"

	"github.com/google/uuid"
)

type Timeline struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	EngagementDate *time.Time `gorm:"type:date" json:"engagement_date"`
	WeddingDate    *time.Time `gorm:"type:date" json:"wedding_date"`
	CompletedTasks int        `gorm:"default:0" json:"completed_tasks"`
	CarPosition    int        `gorm:"default:0" json:"car_position"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Timeline) TableName() string {
	return "timelines"
}
