package chat

import (
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/places"
	"github.com/gofiber/fiber/v2"
)

type ChatPlugin struct{}

func New() *ChatPlugin {
	return &ChatPlugin{}
}

func (p *ChatPlugin) ID() string { return "chat" }

func (p *ChatPlugin) Models() []interface{} {
	return []interface{}{
		&models.Session{},
		&models.Message{},
		&models.ChecklistItem{},
		&models.Vendor{},
	}
}

func (p *ChatPlugin) RegisterRoutes(router fiber.Router, deps *features.Deps) {
	cfg := deps.Cfg
	repo := NewRepository(deps.DB)

	var cacher Cacher
	if deps.Cache != nil {
		cacher = deps.Cache
	}
	counter := NewCachedUserCount(repo, cacher, cfg.UserCountTTL)

	processor := NewProcessor(repo, llm.New(cfg), places.New(cfg), counter, Options{
		FreeDailyLimit:    cfg.FreeDailyMessageLimit,
		TrialDays:         cfg.TrialDays,
		EarlyAdopterLimit: cfg.EarlyAdopterLimit,
		HistoryLimit:      cfg.MaxHistoryMessages,
	})
	handler := NewHandler(processor)

	router.Post("/chat", handler.Chat)
}
