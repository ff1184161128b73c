package chat

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/google/uuid"
)

// Store is the pipeline's view of the row storage. Profile and Timeline rows are also
// written by other clients, so implementations must not cache them.
type Store interface {
	SessionOwner(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// CreateDefaultProfile inserts a trial profile and an empty timeline in one transaction.
	CreateDefaultProfile(ctx context.Context, userID uuid.UUID, name string, now time.Time) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error

	GetTimeline(ctx context.Context, userID uuid.UUID) (*models.Timeline, error)
	UpdateTimeline(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error

	UpcomingChecklist(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChecklistItem, error)
	ChecklistCounts(ctx context.Context, userID uuid.UUID) (total, completed int64, err error)
	CreateChecklistItems(ctx context.Context, items []models.ChecklistItem) error

	ListVendors(ctx context.Context, userID uuid.UUID) ([]models.Vendor, error)
	ExistingVendorNames(ctx context.Context, userID uuid.UUID, names []string) (map[string]bool, error)
	CreateVendors(ctx context.Context, vendors []models.Vendor) error

	// RecentMessages returns at most limit messages, oldest first.
	RecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error

	CountProfiles(ctx context.Context) (int64, error)
}
