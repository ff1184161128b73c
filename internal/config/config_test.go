package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FREE_DAILY_MESSAGE_LIMIT", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("PLACES_RPS", "")

	cfg := Load()

	assert.Equal(t, 20, cfg.FreeDailyMessageLimit)
	assert.Equal(t, 7, cfg.TrialDays)
	assert.Equal(t, 100, cfg.EarlyAdopterLimit)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.Equal(t, 1.0, cfg.PlacesRPS)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FREE_DAILY_MESSAGE_LIMIT", "5")
	t.Setenv("AI_TIMEOUT", "10s")
	t.Setenv("PLACES_RPS", "0.5")
	t.Setenv("DB_PASSWORD", "secret")

	cfg := Load()

	assert.Equal(t, 5, cfg.FreeDailyMessageLimit)
	assert.Equal(t, 10*time.Second, cfg.AITimeout)
	assert.Equal(t, 0.5, cfg.PlacesRPS)
	assert.Contains(t, cfg.DSN(), "password=secret")
	assert.Contains(t, cfg.DSN(), "TimeZone=UTC")
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}
