package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidAppUserID = errors.New("app_user_id is not a user id")

// TierUpdater writes a profile's subscription tier. It reports false when no profile matched.
type TierUpdater interface {
	SetTier(ctx context.Context, userID uuid.UUID, tier string) (bool, error)
}

type SubscriptionService struct {
	tiers TierUpdater
}

func NewSubscriptionService(tiers TierUpdater) *SubscriptionService {
	return &SubscriptionService{tiers: tiers}
}

// TierForEvent maps a RevenueCat event type to the tier it grants. ok is false for events
// that leave the tier alone. No event restores the trial tier.
func TierForEvent(eventType string) (tier string, ok bool) {
	switch eventType {
	case "INITIAL_PURCHASE", "RENEWAL", "UNCANCELLATION", "PRODUCT_CHANGE":
		return models.TierVIP, true
	case "EXPIRATION":
		return models.TierFree, true
	default:
		// CANCELLATION keeps access until the period ends and EXPIRATION follows.
		return "", false
	}
}

func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, event *dto.RevenueCatEvent) error {
	tier, ok := TierForEvent(event.Type)
	if !ok {
		return nil
	}

	userID, err := uuid.Parse(event.AppUserID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAppUserID, event.AppUserID)
	}

	matched, err := s.tiers.SetTier(ctx, userID, tier)
	if err != nil {
		return fmt.Errorf("set tier %s: %w", tier, err)
	}
	if !matched {
		slog.Warn("webhook for unknown profile", "action", "webhook.revenuecat", "user_id", userID.String(), "event_type", event.Type)
	}
	return nil
}

type ProfileTiers struct {
	db *gorm.DB
}

func NewProfileTiers(db *gorm.DB) *ProfileTiers {
	return &ProfileTiers{db: db}
}

func (p *ProfileTiers) SetTier(ctx context.Context, userID uuid.UUID, tier string) (bool, error) {
	result := p.db.WithContext(ctx).Model(&models.Profile{}).
		Scopes(identity.ForUser(userID)).
		Update("subscription_tier", tier)
	return result.RowsAffected > 0, result.Error
}
