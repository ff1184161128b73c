package features

import (
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the shared resources handed to every plugin.
type Deps struct {
	DB  *gorm.DB
	Cfg *config.Config
	// Cache is nil when Redis is not configured.
	Cache *cache.Cache
}

// Plugin defines the interface every feature must implement.
type Plugin interface {
	// ID returns the unique feature identifier, used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is already prefixed with /api/p and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, deps *Deps)
}
