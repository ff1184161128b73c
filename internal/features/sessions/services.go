package sessions

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotOwner        = errors.New("session does not belong to user")
)

const maxListedSessions = 100

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	session := models.Session{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the caller's sessions, newest first.
func (s *SessionService) List(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var list []models.Session
	err := s.db.WithContext(ctx).
		Scopes(identity.ForUser(userID)).
		Order("created_at DESC").
		Limit(maxListedSessions).
		Find(&list).Error
	return list, err
}

// Messages returns every message of an owned session in conversation order.
func (s *SessionService) Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]models.Message, error) {
	db := s.db.WithContext(ctx)

	var session models.Session
	if err := db.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotOwner
	}

	var msgs []models.Message
	err := db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}
