package models

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_vendors_user_name,priority:1" json:"user_id"`
	Name      string     `gorm:"size:255;not null;index:idx_vendors_user_name,priority:2" json:"name"`
	Service   string     `gorm:"size:100" json:"service"`
	Amount    *float64   `gorm:"type:numeric(12,2)" json:"amount"`
	Paid      bool       `gorm:"default:false" json:"paid"`
	DueDate   *time.Time `gorm:"type:date" json:"due_date"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}
