package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TierTrial = "trial"
	TierFree  = "free"
	TierVIP   = "vip"
)

// Profile is shared with the dashboard UI, which writes to it independently.
type Profile struct {
	UserID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name              string     `gorm:"size:255" json:"name"`
	SubscriptionTier  string     `gorm:"size:20;not null;default:'trial'" json:"subscription_tier"`
	DailyMessageCount int        `gorm:"default:0" json:"daily_message_count"`
	LastMessageDate   *time.Time `gorm:"type:date" json:"last_message_date"`
	TrialStartDate    *time.Time `json:"trial_start_date"`
	PartnerName       *string    `gorm:"size:255" json:"partner_name"`
	RelationshipYears *string    `gorm:"size:100" json:"relationship_years"`
	WeddingDate       *time.Time `gorm:"type:date" json:"wedding_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
