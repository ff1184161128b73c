package chat

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the PostgreSQL Store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) SessionOwner(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		return uuid.Nil, notFound(err)
	}
	return session.UserID, nil
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Scopes(identity.ForUser(userID)).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (r *Repository) CreateDefaultProfile(ctx context.Context, userID uuid.UUID, name string, now time.Time) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{
			UserID:           userID,
			Name:             name,
			SubscriptionTier: models.TierTrial,
			TrialStartDate:   &now,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Timeline{UserID: userID}).Error
	})
	if err != nil {
		return nil, err
	}
	// Re-read so a row created concurrently by another writer wins.
	return r.GetProfile(ctx, userID)
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Profile{}).
		Scopes(identity.ForUser(userID)).
		Updates(fields).Error
}

func (r *Repository) GetTimeline(ctx context.Context, userID uuid.UUID) (*models.Timeline, error) {
	var timeline models.Timeline
	if err := r.db.WithContext(ctx).Scopes(identity.ForUser(userID)).First(&timeline).Error; err != nil {
		return nil, notFound(err)
	}
	return &timeline, nil
}

// UpdateTimeline creates the row first when it is missing.
func (r *Repository) UpdateTimeline(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.Timeline{}).Scopes(identity.ForUser(userID)).Updates(fields)
	if result.Error != nil || result.RowsAffected > 0 {
		return result.Error
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Timeline{UserID: userID}).Error; err != nil {
		return err
	}
	return db.Model(&models.Timeline{}).Scopes(identity.ForUser(userID)).Updates(fields).Error
}

func (r *Repository) UpcomingChecklist(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	err := r.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order("due_date ASC NULLS LAST").
		Order("created_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *Repository) ChecklistCounts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var counts struct {
		Total     int64
		Completed int64
	}
	err := r.db.WithContext(ctx).Model(&models.ChecklistItem{}).
		Scopes(identity.ForUser(userID)).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed").
		Scan(&counts).Error
	return counts.Total, counts.Completed, err
}

func (r *Repository) CreateChecklistItems(ctx context.Context, items []models.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Repository) ListVendors(ctx context.Context, userID uuid.UUID) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).Scopes(identity.ForUser(userID)).Order("created_at ASC").Find(&vendors).Error
	return vendors, err
}

func (r *Repository) ExistingVendorNames(ctx context.Context, userID uuid.UUID, names []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(names) == 0 {
		return existing, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&models.Vendor{}).
		Scopes(identity.ForUser(userID)).
		Where("name IN ?", names).
		Pluck("name", &found).Error
	if err != nil {
		return nil, err
	}
	for _, name := range found {
		existing[name] = true
	}
	return existing, nil
}

func (r *Repository) CreateVendors(ctx context.Context, vendors []models.Vendor) error {
	return r.db.WithContext(ctx).Create(&vendors).Error
}

func (r *Repository) RecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Omit("Session").Create(msg).Error
}

func (r *Repository) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&n).Error
	return n, err
}
